package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
)

var (
	ErrEmptyCatalog  = errors.New("catalog is empty")
	ErrDuplicateID   = errors.New("duplicate value id")
	ErrDuplicateName = errors.New("duplicate value name")
)

// Entity is one catalog value. Position is nil while the value is unranked.
type Entity struct {
	ID          string `json:"id" yaml:"id" validate:"required"`
	Name        string `json:"name" yaml:"name" validate:"required"`
	Description string `json:"description" yaml:"description"`
	Position    *int   `json:"position" yaml:"-"`
}

// Ranked reports whether the entity currently holds a position.
func (e Entity) Ranked() bool { return e.Position != nil }

// WithPosition returns a copy of e holding pos (nil clears it).
func (e Entity) WithPosition(pos *int) Entity {
	if pos == nil {
		e.Position = nil
		return e
	}
	p := *pos
	e.Position = &p
	return e
}

// MatchKind classifies a name lookup.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchFound
	MatchAmbiguous
)

func (k MatchKind) String() string {
	switch k {
	case MatchFound:
		return "found"
	case MatchAmbiguous:
		return "ambiguous"
	default:
		return "none"
	}
}

// Match is the result of Catalog.Lookup. ID is set only for MatchFound.
type Match struct {
	Kind MatchKind
	ID   string
}

// Catalog is the fixed, ordered set of values. It is immutable once built.
type Catalog struct {
	entities []Entity
	byID     map[string]int
	byName   map[string][]string // normalized name -> ids
}

// New builds a catalog from entries. Positions on the entries are dropped:
// the catalog default is always "all unranked".
func New(entries []Entity) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		entities: make([]Entity, 0, len(entries)),
		byID:     make(map[string]int, len(entries)),
		byName:   make(map[string][]string, len(entries)),
	}
	for _, e := range entries {
		e.ID = strings.TrimSpace(e.ID)
		e.Name = strings.TrimSpace(e.Name)
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: id and name required", len(c.entities)+1)
		}
		if _, ok := c.byID[e.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		key := NormalizeName(e.Name)
		if _, ok := c.byName[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, e.Name)
		}
		e.Position = nil
		c.byID[e.ID] = len(c.entities)
		c.byName[key] = append(c.byName[key], e.ID)
		c.entities = append(c.entities, e)
	}
	return c, nil
}

// NormalizeName is the key used for case-insensitive name matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// StableID derives the id used for built-in values so it survives reorders
// of the default list.
func StableID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("value:"+NormalizeName(name))).String()
}

// Len returns N.
func (c *Catalog) Len() int { return len(c.entities) }

// Entities returns the default state: every value unranked, in catalog order.
func (c *Catalog) Entities() []Entity {
	out := make([]Entity, len(c.entities))
	copy(out, c.entities)
	return out
}

// Index returns the catalog order of id.
func (c *Catalog) Index(id string) (int, bool) {
	i, ok := c.byID[id]
	return i, ok
}

// Get returns the catalog entry for id.
func (c *Catalog) Get(id string) (Entity, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Entity{}, false
	}
	return c.entities[i], true
}

// Lookup resolves name case-insensitively.
func (c *Catalog) Lookup(name string) Match {
	ids := c.byName[NormalizeName(name)]
	switch len(ids) {
	case 0:
		return Match{Kind: MatchNone}
	case 1:
		return Match{Kind: MatchFound, ID: ids[0]}
	default:
		return Match{Kind: MatchAmbiguous}
	}
}

// Suggest returns the closest catalog name to name, or "" when nothing is
// near enough to be a plausible typo.
func (c *Catalog) Suggest(name string) string {
	key := NormalizeName(name)
	if key == "" {
		return ""
	}
	limit := len([]rune(key)) / 3
	if limit < 2 {
		limit = 2
	}
	best, bestDist := "", limit+1
	for _, e := range c.entities {
		d := levenshtein.ComputeDistance(key, NormalizeName(e.Name))
		if d < bestDist {
			best, bestDist = e.Name, d
		}
	}
	return best
}
