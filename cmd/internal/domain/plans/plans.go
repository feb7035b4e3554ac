package plans

import (
	_ "embed"
	"fmt"
	"omigec/cmd/internal/domain/entity"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed plans.yaml
var defaultCatalog []byte

type Plan struct {
	Name         entity.PlanName `yaml:"name" json:"name"`
	Label        string          `yaml:"label" json:"label"`
	Price        int64           `yaml:"price" json:"price"`
	MaxOffers    int             `yaml:"max_offers" json:"max_offers"`
	DurationDays int             `yaml:"duration_days" json:"duration_days"`
}

// Unlimited reports whether the plan has no cap on active offers.
func (p *Plan) Unlimited() bool {
	return p.MaxOffers <= 0
}

func (p *Plan) Duration() time.Duration {
	return time.Duration(p.DurationDays) * 24 * time.Hour
}

type Catalog struct {
	plans []*Plan
}

type catalogFile struct {
	Plans []*Plan `yaml:"plans"`
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("plans: %w", err)
	}

	if len(f.Plans) == 0 {
		return nil, fmt.Errorf("plans: catalog is empty")
	}

	for _, p := range f.Plans {
		if p.Name == "" || p.DurationDays <= 0 {
			return nil, fmt.Errorf("plans: invalid plan %q", p.Name)
		}
	}
	return &Catalog{plans: f.Plans}, nil
}

func (c *Catalog) Get(name entity.PlanName) (*Plan, bool) {
	for _, p := range c.plans {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

func (c *Catalog) All() []*Plan {
	return c.plans
}
