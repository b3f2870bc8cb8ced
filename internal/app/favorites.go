package app

import "interview-prep-service/internal/domain"

// Favorites keeps the favorite flag per question under "question-favorites".
type Favorites struct {
	state *KeyedState[bool]
}

func NewFavorites(r *Registry) *Favorites {
	return &Favorites{state: Keyed[bool](r, domain.StoreFavorites)}
}

func (f *Favorites) IsFavorite(id string) bool {
	v, ok := f.state.Get(id)
	return ok && v
}

func (f *Favorites) Add(id string) {
	f.state.Update(id, "add", func(bool, bool) bool { return true })
}

func (f *Favorites) Remove(id string) {
	f.state.Delete(id, "remove")
}

// Toggle flips the flag and returns the new state.
func (f *Favorites) Toggle(id string) bool {
	if f.IsFavorite(id) {
		f.Remove(id)
		return false
	}
	f.Add(id)
	return true
}

// IDs lists favorited ids in insertion order.
func (f *Favorites) IDs() []string {
	ids := []string{}
	for _, e := range f.state.Entries() {
		if e.Value {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func (f *Favorites) Count() int {
	return len(f.IDs())
}

func (f *Favorites) Clear() {
	f.state.Clear("clear")
}
