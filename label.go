package goldbook

import "fmt"

// CustomerLabel returns the name of the customer with this id, or a
// placeholder "Customer #<id>" when customers does not know it.
func CustomerLabel(id int64, customers []Customer) string {
	for _, c := range customers {
		if c.ID == id {
			return label(id, c.Name)
		}
	}
	return placeholder(id)
}

// Directory indexes customers by id for label resolution.
type Directory map[int64]Customer

// NewDirectory indexes customers. Later duplicates win.
func NewDirectory(customers []Customer) Directory {
	dir := make(Directory, len(customers))
	for _, c := range customers {
		dir[c.ID] = c
	}
	return dir
}

// Label returns the customer's display name, or the placeholder.
func (d Directory) Label(id int64) string {
	c, ok := d[id]
	if !ok {
		return placeholder(id)
	}
	return label(id, c.Name)
}

// label falls back to the placeholder for customers without a name.
func label(id int64, name string) string {
	if name == "" {
		return placeholder(id)
	}
	return name
}

func placeholder(id int64) string { return fmt.Sprintf("Customer #%d", id) }
