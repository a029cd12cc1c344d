package reconcile

import (
	"strconv"

	"github.com/nhle/inspection/internal/model"
)

// Filter keys.
const (
	FilterStatus   = "status"
	FilterPriority = "priority"
	FilterTestType = "test_type"
)

// InstallationSpec searches id, address and customer name. Installations
// have no status, so they are all counted under "".
var InstallationSpec = Spec[model.Installation]{
	Search: func(i model.Installation) []string {
		return []string{i.ID, i.Address, i.CustomerName}
	},
	Filter: func(model.Installation, string) string { return "" },
	Status: func(model.Installation) string { return "" },
}

// TaskSpec searches title, description and assignee.
var TaskSpec = Spec[model.Task]{
	Search: func(t model.Task) []string {
		return []string{t.Title, t.Description, t.AssignedTo}
	},
	Filter: func(t model.Task, key string) string {
		switch key {
		case FilterStatus:
			return string(t.Status)
		case FilterPriority:
			return string(t.Priority)
		}
		return ""
	},
	Status: func(t model.Task) string { return string(t.Status) },
}

// TestSpec searches id, installation and technician.
var TestSpec = Spec[model.Test]{
	Search: func(t model.Test) []string {
		return []string{strconv.FormatInt(t.ID, 10), t.InstallationID, t.Technician}
	},
	Filter: func(t model.Test, key string) string {
		switch key {
		case FilterStatus:
			return string(t.Status)
		case FilterTestType:
			return string(t.TestType)
		}
		return ""
	},
	Status: func(t model.Test) string { return string(t.Status) },
}

// Recent returns the first n items in the order the API returned them.
func Recent[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}
