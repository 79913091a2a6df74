package iotesting

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/derivative"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/ingest"
	"github.com/phingest/phingest/pkg/lifecycle"
	"github.com/phingest/phingest/pkg/media"
	"github.com/phingest/phingest/pkg/tags"
)

// Recorder collects names of side effects in the order they happen.
// Fakes sharing one Recorder show the order of calls across
// collaborators.
type Recorder struct {
	mu  sync.Mutex
	ops []string
}

// Add appends an operation.
func (r *Recorder) Add(op string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

// Ops returns a copy of recorded operations.
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.ops)
}

// Catalog is an in-memory lifecycle.Catalog and lifecycle.CatalogReader.
type Catalog struct {
	mu sync.Mutex

	// Log receives "write_item", "write_tags" and "write_derivative".
	Log *Recorder
	// Fail maps an operation name to the error it returns.
	Fail map[string]error

	items       map[string]lifecycle.CatalogItem
	order       []string
	checksums   map[string]string
	tagNames    map[string]string
	itemTags    map[string][]string
	derivatives []derivative.Record
}

var (
	_ lifecycle.Catalog       = (*Catalog)(nil)
	_ lifecycle.CatalogReader = (*Catalog)(nil)
)

// NewCatalog creates an empty in-memory catalog.
func NewCatalog(log *Recorder) *Catalog {
	return &Catalog{
		Log:       log,
		Fail:      make(map[string]error),
		items:     make(map[string]lifecycle.CatalogItem),
		checksums: make(map[string]string),
		tagNames:  make(map[string]string),
		itemTags:  make(map[string][]string),
	}
}

func (c *Catalog) CountIdentifiersFor(
	_ context.Context, prefix, letter string, date time.Time,
) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Fail["count"]; err != nil {
		return 0, err
	}
	start := prefix + "/" + ident.DayPattern(letter, date)
	var res int
	for k := range c.items {
		if strings.HasPrefix(k, start) {
			res++
		}
	}
	return res, nil
}

func (c *Catalog) HasDuplicate(
	_ context.Context, p lifecycle.DuplicateProbe,
) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Fail["duplicate"]; err != nil {
		return false, err
	}
	day := "/" + ident.DayPattern(p.Letter, p.Date)
	for k, v := range c.items {
		if !strings.Contains(k, day) {
			continue
		}
		sameRaw := p.RawFilename != "" && v.Record.RawFilename == p.RawFilename
		if sameRaw || v.Record.Filename == p.Filename {
			return true, nil
		}
	}
	return false, nil
}

func (c *Catalog) WriteItem(
	_ context.Context,
	id ident.Identifier,
	location string,
	rec media.Record,
	checksum string,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Log.Add("write_item")
	if err := c.Fail["write_item"]; err != nil {
		return err
	}
	key := id.String()
	if _, ok := c.items[key]; ok {
		return &gn.Error{
			Code: errcode.ConstraintViolationError,
			Msg:  "Catalog already has <em>%s</em>",
			Vars: []any{key},
			Err:  fmt.Errorf("duplicate key %s", key),
		}
	}
	c.items[key] = lifecycle.CatalogItem{
		Identifier: id, Location: location, Record: rec,
	}
	c.order = append(c.order, key)
	c.checksums[key] = checksum
	return nil
}

func (c *Catalog) WriteTags(
	_ context.Context, id ident.Identifier, ts []tags.Tag,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Log.Add("write_tags")
	if err := c.Fail["write_tags"]; err != nil {
		return err
	}
	for _, v := range ts {
		if err := tags.Check(v.ID); err != nil {
			return err
		}
	}
	key := id.String()
	if _, ok := c.items[key]; !ok {
		return &gn.Error{
			Code: errcode.ItemNotFoundError,
			Msg:  "Catalog has no item <em>%s</em>",
			Vars: []any{key},
			Err:  fmt.Errorf("item %s not found", key),
		}
	}
	for _, v := range ts {
		if _, ok := c.tagNames[v.ID]; !ok {
			c.tagNames[v.ID] = v.Name
		}
		c.itemTags[key] = append(c.itemTags[key], v.ID)
	}
	return nil
}

func (c *Catalog) WriteDerivative(
	_ context.Context, rec derivative.Record,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Log.Add("write_derivative")
	if err := c.Fail["write_derivative"]; err != nil {
		return err
	}
	c.derivatives = append(c.derivatives, rec)
	return nil
}

func (c *Catalog) Item(
	_ context.Context, id ident.Identifier,
) (lifecycle.CatalogItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.items[id.String()]
	if !ok {
		return res, &gn.Error{
			Code: errcode.ItemNotFoundError,
			Msg:  "Catalog has no item <em>%s</em>",
			Vars: []any{id.String()},
			Err:  fmt.Errorf("item %s not found", id),
		}
	}
	res.Tags = c.tagsOf(id.String())
	return res, nil
}

func (c *Catalog) LargestDerivatives(
	_ context.Context, limit int,
) ([]derivative.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	widest := make(map[string]derivative.Record)
	for _, v := range c.derivatives {
		if v.Identifier == "" {
			continue
		}
		if cur, ok := widest[v.Identifier]; !ok || v.Width > cur.Width {
			widest[v.Identifier] = v
		}
	}
	ids := make([]string, 0, len(widest))
	for k := range widest {
		ids = append(ids, k)
	}
	slices.Sort(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	res := make([]derivative.Record, len(ids))
	for i, v := range ids {
		res[i] = widest[v]
	}
	return res, nil
}

// Identifiers returns identifiers of written items in insertion order.
func (c *Catalog) Identifiers() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.order)
}

// Checksum returns the checksum stored with an item.
func (c *Catalog) Checksum(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checksums[id]
}

// TagRows returns the number of distinct tags and of item-tag
// associations written so far.
func (c *Catalog) TagRows() (tagCount, assocCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.itemTags {
		assocCount += len(v)
	}
	return len(c.tagNames), assocCount
}

// TagIDs returns tag ids associated with an item, in association order.
func (c *Catalog) TagIDs(id string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.itemTags[id])
}

// Derivatives returns all written rendition rows.
func (c *Catalog) Derivatives() []derivative.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.derivatives)
}

func (c *Catalog) tagsOf(id string) []tags.Tag {
	var res []tags.Tag
	seen := make(map[string]struct{})
	for _, v := range c.itemTags[id] {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, tags.Tag{ID: v, Name: c.tagNames[v]})
	}
	slices.SortFunc(res, func(a, b tags.Tag) int {
		return strings.Compare(a.ID, b.ID)
	})
	return res
}

// Store is an in-memory lifecycle.ObjectStore.
type Store struct {
	mu sync.Mutex

	// Name is used in recorded operations, "put_{name}", and locators,
	// "mem://{name}/{key}".
	Name string
	Log  *Recorder
	// Fail makes Put return the error.
	Fail error

	objects map[string][]byte
	types   map[string]string
}

var _ lifecycle.ObjectStore = (*Store)(nil)

// NewStore creates an empty store.
func NewStore(name string, log *Recorder) *Store {
	return &Store{
		Name:    name,
		Log:     log,
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *Store) Put(
	_ context.Context, key string, data []byte, contentType string,
) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log.Add("put_" + s.Name)
	if s.Fail != nil {
		return "", s.Fail
	}
	s.objects[key] = slices.Clone(data)
	s.types[key] = contentType
	return "mem://" + s.Name + "/" + key, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.objects[key]
	if !ok {
		return nil, &gn.Error{
			Code: errcode.DownloadFailedError,
			Msg:  "Cannot download <em>%s</em>",
			Vars: []any{key},
			Err:  fmt.Errorf("no object %s", key),
		}
	}
	return slices.Clone(res), nil
}

// Keys returns stored keys, sorted.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]string, 0, len(s.objects))
	for k := range s.objects {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

// ContentType returns the content type stored with key.
func (s *Store) ContentType(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.types[key]
}

// Registrar is an in-memory lifecycle.Registrar. Binding an existing
// identifier fails like the real naming service does.
type Registrar struct {
	mu   sync.Mutex
	Log  *Recorder
	Fail error

	bound map[string]string
}

var _ lifecycle.Registrar = (*Registrar)(nil)

// NewRegistrar creates an empty registrar.
func NewRegistrar(log *Recorder) *Registrar {
	return &Registrar{Log: log, bound: make(map[string]string)}
}

func (r *Registrar) Register(
	_ context.Context, id ident.Identifier, location string,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Log.Add("register")
	if r.Fail != nil {
		return r.Fail
	}
	key := id.String()
	if _, ok := r.bound[key]; ok {
		return &gn.Error{
			Code: errcode.RegistrationFailedError,
			Msg:  "Cannot register <em>%s</em>",
			Vars: []any{key},
			Err:  fmt.Errorf("%s is already bound", key),
		}
	}
	r.bound[key] = location
	return nil
}

// Location returns the location bound to an identifier.
func (r *Registrar) Location(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.bound[id]
	return res, ok
}

// Mirror is an in-memory lifecycle.Mirror.
type Mirror struct {
	mu   sync.Mutex
	Log  *Recorder
	Fail error

	Items []lifecycle.MirrorItem
}

var _ lifecycle.Mirror = (*Mirror)(nil)

func (m *Mirror) Mirror(
	_ context.Context, item lifecycle.MirrorItem,
) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Log.Add("mirror")
	if m.Fail != nil {
		return "", m.Fail
	}
	m.Items = append(m.Items, item)
	return "doc-" + item.Identifier.Suffix, nil
}

// TagReader returns preset raw tags for every path. Received keeps the
// size of the data passed for each path.
type TagReader struct {
	Tags     map[string]media.RawTags
	Fail     error
	Received map[string]int
}

var _ lifecycle.TagReader = (*TagReader)(nil)

func (r *TagReader) Read(
	path string, data []byte, _ string,
) (media.RawTags, error) {
	if r.Received == nil {
		r.Received = make(map[string]int)
	}
	r.Received[path] = len(data)
	if r.Fail != nil {
		return nil, r.Fail
	}
	return r.Tags[path], nil
}

// Journal is an in-memory lifecycle.Journal.
type Journal struct {
	mu      sync.Mutex
	entries []ingest.Entry
}

var _ lifecycle.Journal = (*Journal)(nil)

func (j *Journal) Add(_ context.Context, e ingest.Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *Journal) Entries(
	_ context.Context, f ingest.EntryFilter,
) ([]ingest.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var res []ingest.Entry
	for i := len(j.entries) - 1; i >= 0; i-- {
		e := j.entries[i]
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.RunID != "" && e.RunID != f.RunID {
			continue
		}
		res = append(res, e)
		if f.Limit > 0 && len(res) == f.Limit {
			break
		}
	}
	return res, nil
}

func (j *Journal) Close() error { return nil }
