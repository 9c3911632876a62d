package domain

// FavoriteEntry is a snapshot of a Helpline taken when the user favorited it.
// It is not refreshed if the remote record later changes.
type FavoriteEntry = Helpline

// FavoriteSet indexes favorite entries by helpline id.
type FavoriteSet map[int]FavoriteEntry

// NewFavoriteSet builds a FavoriteSet from entries. The first entry wins
// when an id appears more than once.
func NewFavoriteSet(entries []FavoriteEntry) FavoriteSet {
	set := make(FavoriteSet, len(entries))
	for _, e := range entries {
		if _, dup := set[e.ID]; !dup {
			set[e.ID] = e
		}
	}
	return set
}

// Contains reports whether id is favorited.
func (s FavoriteSet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}
