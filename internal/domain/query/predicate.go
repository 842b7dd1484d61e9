// Package query turns a validated application filter into a dialect-neutral
// description of what to fetch: a predicate tree and a total order.
package query

import "github.com/jobhuntos/jobhunt-api/internal/domain/model"

// Field is an application column a predicate may reference.
type Field string

const (
	FieldCompany Field = "company"
	FieldRole    Field = "role"
	FieldStage   Field = "stage"
	FieldStatus  Field = "status"
)

// Predicate is a boolean condition over application fields. The set of
// implementations is closed: Contains, Equals and And.
type Predicate interface {
	predicate()
}

// Contains matches when any of Fields contains Term, ignoring case.
type Contains struct {
	Fields []Field
	Term   string
}

// Equals matches when Field equals Value exactly.
type Equals struct {
	Field Field
	Value string
}

// And matches when every member matches. An empty And matches everything.
type And []Predicate

func (Contains) predicate() {}
func (Equals) predicate()   {}
func (And) predicate()      {}

// Order is the primary sort key. Stores always break ties by id ascending.
type Order struct {
	Column model.OrderField
	Desc   bool
}

// Query is the complete, windowless description of a result set.
type Query struct {
	Where And
	Order Order
}

// Window is the (offset, limit) slice of an ordered result set for one page.
type Window struct {
	Offset int
	Limit  int
}

// WindowFor returns the window of the filter's page.
func WindowFor(f model.ApplicationFilter) Window {
	return Window{Offset: f.Offset(), Limit: f.PageSize}
}
