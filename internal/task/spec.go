package task

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Spec describes one incoming task in a reconciliation batch. Dependencies
// may reference sibling tasks by identifier or by name; references are
// resolved only after the whole batch has been materialized, so a spec may
// depend on one that appears later in the same batch.
type Spec struct {
	Name                 string        `json:"name"`
	Description          string        `json:"description"`
	ImplementationGuide  string        `json:"implementationGuide,omitempty"`
	Notes                string        `json:"notes,omitempty"`
	Dependencies         []string      `json:"dependencies,omitempty"`
	RelatedFiles         []RelatedFile `json:"relatedFiles,omitempty"`
	VerificationCriteria string        `json:"verificationCriteria,omitempty"`
}

// DecodeSpecs parses a reconciliation batch. The input may be a bare JSON
// array of specs or a {"tasks": [...]} envelope; unknown fields are
// ignored and dependency entries may use either plain strings or the
// legacy {"taskId": "..."} object shape.
func DecodeSpecs(data []byte) ([]Spec, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("malformed JSON")
	}

	root := gjson.ParseBytes(data)
	list := root.Get("tasks")
	if !list.Exists() && root.IsArray() {
		list = root
	}
	if !list.Exists() || list.Type == gjson.Null {
		return []Spec{}, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("tasks field is not a list")
	}

	specs := []Spec{}
	list.ForEach(func(_, el gjson.Result) bool {
		specs = append(specs, decodeSpec(el))
		return true
	})
	return specs, nil
}

func decodeSpec(el gjson.Result) Spec {
	sp := Spec{
		Name:                 el.Get("name").String(),
		Description:          el.Get("description").String(),
		ImplementationGuide:  el.Get("implementationGuide").String(),
		Notes:                el.Get("notes").String(),
		VerificationCriteria: el.Get("verificationCriteria").String(),
	}

	if deps := el.Get("dependencies"); deps.IsArray() {
		sp.Dependencies = []string{}
		deps.ForEach(func(_, d gjson.Result) bool {
			switch {
			case d.Type == gjson.String:
				sp.Dependencies = append(sp.Dependencies, d.String())
			case d.IsObject():
				if id := d.Get("taskId"); id.Exists() {
					sp.Dependencies = append(sp.Dependencies, id.String())
				}
			}
			return true
		})
	}

	if rf := el.Get("relatedFiles"); rf.IsArray() {
		var files []RelatedFile
		if err := json.Unmarshal([]byte(rf.Raw), &files); err == nil {
			sp.RelatedFiles = files
		}
	}
	return sp
}
