package portfolio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AssetType distinguishes top-level properties from the units they own.
type AssetType string

const (
	AssetTypeMaster AssetType = "master"
	AssetTypeUnit   AssetType = "unit"
)

// Well-known occupancy statuses. The status field is free-form in source
// data; these constants cover the values the built-in views depend on.
const (
	StatusOccupied    = "Occupied"
	StatusVoid        = "Void"
	StatusUnderOffer  = "Under Offer"
	StatusMaintenance = "Maintenance"
)

// Well-known compliance statuses.
const (
	ComplianceCompliant    = "Compliant"
	ComplianceNonCompliant = "Non-Compliant"
	ComplianceExpired      = "Expired"
	CompliancePending      = "Pending"
)

// Document is a reference to a file attached to an asset.
type Document struct {
	Name       string     `json:"name" yaml:"name"`
	Kind       string     `json:"kind,omitempty" yaml:"kind,omitempty"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty" yaml:"uploadedAt,omitempty"`
}

// Tenant is a person occupying a unit.
type Tenant struct {
	Name   string     `json:"name" yaml:"name"`
	MoveIn *time.Time `json:"moveIn,omitempty" yaml:"moveIn,omitempty"`
}

// PropertyAsset is a single record in the portfolio: either a Master
// (a property) or a Unit owned by exactly one Master via ParentID.
// Records are read-only to the pipeline; every stage derives new views
// over the collection and never mutates an asset in place.
type PropertyAsset struct {
	ID       string    `json:"id" yaml:"id"`
	Type     AssetType `json:"type" yaml:"type"`
	ParentID string    `json:"parentId,omitempty" yaml:"parentId,omitempty"`

	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Address  string `json:"address" yaml:"address"`
	Postcode string `json:"postcode,omitempty" yaml:"postcode,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`

	HousingManager  string `json:"housingManager,omitempty" yaml:"housingManager,omitempty"`
	PropertyManager string `json:"propertyManager,omitempty" yaml:"propertyManager,omitempty"`

	Status           string `json:"status,omitempty" yaml:"status,omitempty"`
	ComplianceStatus string `json:"complianceStatus,omitempty" yaml:"complianceStatus,omitempty"`
	Archived         bool   `json:"archived,omitempty" yaml:"archived,omitempty"`

	TotalUnits    int     `json:"totalUnits,omitempty" yaml:"totalUnits,omitempty"`
	OccupiedUnits int     `json:"occupiedUnits,omitempty" yaml:"occupiedUnits,omitempty"`
	MonthlyRent   float64 `json:"monthlyRent,omitempty" yaml:"monthlyRent,omitempty"`

	LeaseStart     *time.Time `json:"leaseStart,omitempty" yaml:"leaseStart,omitempty"`
	LeaseEnd       *time.Time `json:"leaseEnd,omitempty" yaml:"leaseEnd,omitempty"`
	LastInspection *time.Time `json:"lastInspection,omitempty" yaml:"lastInspection,omitempty"`
	NextInspection *time.Time `json:"nextInspection,omitempty" yaml:"nextInspection,omitempty"`

	Tags      []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	Documents []Document `json:"documents,omitempty" yaml:"documents,omitempty"`
	Tenants   []Tenant   `json:"tenants,omitempty" yaml:"tenants,omitempty"`
}

// HasTag reports whether the asset carries the given tag.
func (a *PropertyAsset) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// AddTag appends a tag if not already present.
func (a *PropertyAsset) AddTag(tag string) {
	if tag = strings.TrimSpace(tag); tag == "" || a.HasTag(tag) {
		return
	}
	a.Tags = append(a.Tags, tag)
}

// IsMaster reports whether the asset is a top-level property.
func (a *PropertyAsset) IsMaster() bool {
	return a != nil && a.Type == AssetTypeMaster
}

// VoidUnits is the number of units on a Master not currently occupied.
func (a *PropertyAsset) VoidUnits() int {
	if a == nil {
		return 0
	}
	v := a.TotalUnits - a.OccupiedUnits
	if v < 0 {
		return 0
	}
	return v
}

// OccupancyRate is the occupied percentage of a single asset, 0 when it
// has no units.
func (a *PropertyAsset) OccupancyRate() float64 {
	if a == nil || a.TotalUnits == 0 {
		return 0
	}
	return float64(a.OccupiedUnits) / float64(a.TotalUnits) * 100
}

// Collection is an in-memory, read-only set of assets for one session.
type Collection struct {
	assets  []*PropertyAsset
	byID    map[string]*PropertyAsset
	units   map[string][]*PropertyAsset
	orphans []*PropertyAsset
}

// NewCollection indexes the provided assets. Records failing the minimal
// shape check (id, address, type) are dropped rather than propagated into
// the pipeline; the count of dropped records is returned for logging.
func NewCollection(assets []*PropertyAsset) (*Collection, int) {
	c := &Collection{
		byID:  make(map[string]*PropertyAsset, len(assets)),
		units: make(map[string][]*PropertyAsset),
	}

	dropped := 0
	for _, a := range assets {
		if !validShape(a) {
			dropped++
			continue
		}
		if _, dup := c.byID[a.ID]; dup {
			dropped++
			continue
		}
		c.assets = append(c.assets, a)
		c.byID[a.ID] = a
	}

	for _, a := range c.assets {
		if a.Type != AssetTypeUnit {
			continue
		}
		if _, ok := c.byID[a.ParentID]; !ok || a.ParentID == "" {
			c.orphans = append(c.orphans, a)
			continue
		}
		c.units[a.ParentID] = append(c.units[a.ParentID], a)
	}

	return c, dropped
}

func validShape(a *PropertyAsset) bool {
	if a == nil {
		return false
	}
	if strings.TrimSpace(a.ID) == "" || strings.TrimSpace(a.Address) == "" {
		return false
	}
	return a.Type == AssetTypeMaster || a.Type == AssetTypeUnit
}

// Assets returns every record in input order.
func (c *Collection) Assets() []*PropertyAsset {
	return c.assets
}

// Masters returns the top-level records in input order.
func (c *Collection) Masters() []*PropertyAsset {
	rv := make([]*PropertyAsset, 0, len(c.assets))
	for _, a := range c.assets {
		if a.IsMaster() {
			rv = append(rv, a)
		}
	}
	return rv
}

// Lookup returns the asset with the given id.
func (c *Collection) Lookup(id string) (*PropertyAsset, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// UnitsOf returns the units owned by the given Master, in input order.
func (c *Collection) UnitsOf(masterID string) []*PropertyAsset {
	return c.units[masterID]
}

// Orphans returns units whose parentId does not resolve to a Master in
// the collection. They are surfaced under an "Unassigned" pseudo-group
// rather than silently dropped.
func (c *Collection) Orphans() []*PropertyAsset {
	return c.orphans
}

// Len returns the number of valid records.
func (c *Collection) Len() int {
	return len(c.assets)
}

// Load reads a portfolio document (YAML or JSON) from r. The document is
// either a bare list of assets or a mapping with an `assets` key.
func Load(r io.Reader) (*Collection, int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read portfolio: %w", err)
	}

	var doc struct {
		Assets []*PropertyAsset `json:"assets" yaml:"assets"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil || doc.Assets == nil {
		var list []*PropertyAsset
		if err2 := yaml.Unmarshal(raw, &list); err2 != nil {
			if err == nil {
				err = err2
			}
			return nil, 0, fmt.Errorf("decode portfolio: %w", err)
		}
		doc.Assets = list
	}

	c, dropped := NewCollection(doc.Assets)
	return c, dropped, nil
}

// LoadFile is Load over a file path.
func LoadFile(path string) (*Collection, int, error) {
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, 0, fmt.Errorf("open portfolio: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// SaveFile writes the collection back to a portfolio document, atomically:
// a temp file in the target directory is renamed over the original so a
// crash never leaves a truncated dataset.
func (c *Collection) SaveFile(path string) error {
	doc := struct {
		Assets []*PropertyAsset `yaml:"assets"`
	}{Assets: c.assets}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode portfolio: %w", err)
	}

	path = os.ExpandEnv(path)
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "portfolio-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp portfolio file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write portfolio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp portfolio file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace portfolio file: %w", err)
	}
	return nil
}

// Remove drops the asset with the given id and, for a Master, every unit
// it owns. It reports how many records were removed.
func (c *Collection) Remove(id string) int {
	target, ok := c.byID[id]
	if !ok {
		return 0
	}

	doomed := map[string]struct{}{id: {}}
	if target.IsMaster() {
		for _, u := range c.units[id] {
			doomed[u.ID] = struct{}{}
		}
	}

	kept := c.assets[:0]
	for _, a := range c.assets {
		if _, gone := doomed[a.ID]; gone {
			delete(c.byID, a.ID)
			continue
		}
		kept = append(kept, a)
	}
	c.assets = kept
	delete(c.units, id)
	return len(doomed)
}
