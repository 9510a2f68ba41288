package seed

import "fmt"

// Kind names the table a fixture ref points into.
type Kind string

const (
	KindUser Kind = "user"
	KindTrip Kind = "trip"
	KindStep Kind = "step"
)

// Registry maps fixture refs to the ids the database assigned them. One is
// created per seeding run and handed to every step.
type Registry struct {
	ids     map[Kind]map[string]int64
	members map[int64][]int64
}

func NewRegistry() *Registry {
	return &Registry{
		ids:     map[Kind]map[string]int64{},
		members: map[int64][]int64{},
	}
}

// Put records ref. Declaring the same ref twice is an error.
func (r *Registry) Put(kind Kind, ref string, id int64) error {
	if ref == "" {
		return fmt.Errorf("%s fixture without a ref", kind)
	}
	byRef, ok := r.ids[kind]
	if !ok {
		byRef = map[string]int64{}
		r.ids[kind] = byRef
	}
	if _, dup := byRef[ref]; dup {
		return fmt.Errorf("duplicate %s ref %q", kind, ref)
	}
	byRef[ref] = id
	return nil
}

func (r *Registry) Resolve(kind Kind, ref string) (int64, error) {
	id, ok := r.ids[kind][ref]
	if !ok {
		return 0, fmt.Errorf("unknown %s ref %q", kind, ref)
	}
	return id, nil
}

// Count returns how many refs of kind were recorded.
func (r *Registry) Count(kind Kind) int {
	return len(r.ids[kind])
}

func (r *Registry) addMember(tripID, userID int64) {
	r.members[tripID] = append(r.members[tripID], userID)
}

// Members lists the trip's members in the order they joined, owner first.
func (r *Registry) Members(tripID int64) []int64 {
	return r.members[tripID]
}
