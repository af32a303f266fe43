package services

import "encoding/json"

// OptionalID is a patch field that distinguishes three wire states: absent
// (leave unchanged), explicit null (clear the reference), and a value
// (reassign). A plain *uint cannot tell absent from null.
type OptionalID struct {
	Set   bool  // true when the key appeared in the payload
	Value *uint // nil for explicit null
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
