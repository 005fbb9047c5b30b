package models

import "fmt"

// IDTuple identifies an element of a list, e.g. one member in a group's
// member list.
type IDTuple struct {
	// ListID is the id of the list the element belongs to.
	ListID string `json:"listId"`

	// ElementID is the id of the element within the list.
	ElementID string `json:"elementId"`
}

// IsZero reports whether neither part of the id is set.
func (id IDTuple) IsZero() bool {
	return id.ListID == "" && id.ElementID == ""
}

func (id IDTuple) String() string {
	return fmt.Sprintf("%s/%s", id.ListID, id.ElementID)
}
