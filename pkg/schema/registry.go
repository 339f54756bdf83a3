package schema

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rawbytedev/bufferplus"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
)

type config struct {
	types *bufferplus.Registry
	enc   encoding.Encoding
}

// Option configures a Registry.
type Option func(*config)

// WithTypes resolves leaf types against r instead of bufferplus.Types().
func WithTypes(r *bufferplus.Registry) Option {
	return func(c *config) { c.types = r }
}

// WithEncoding sets the text encoding of every schema registered afterwards.
func WithEncoding(enc encoding.Encoding) Option {
	return func(c *config) { c.enc = enc }
}

// Registry holds compiled schemas by name. It is safe for concurrent use.
type Registry struct {
	cfg config

	mu      sync.RWMutex
	schemas map[string]*Schema
	names   []string
}

func NewRegistry(opts ...Option) *Registry {
	cfg := config{types: bufferplus.Types()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{cfg: cfg, schemas: make(map[string]*Schema)}
}

// Register validates and compiles n under name. A name can be registered once.
func (r *Registry) Register(name string, n *Node, opts ...Option) (*Schema, error) {
	cfg := r.cfg
	for _, opt := range opts {
		opt(&cfg)
	}
	if r.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrSchemaExists, name)
	}
	def, err := Parse(name, n, cfg.types)
	if err != nil {
		return nil, err
	}
	s, err := Compile(name, def, cfg.types, cfg.enc)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schemas[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrSchemaExists, name)
	}
	r.schemas[name] = s
	r.names = append(r.names, name)
	Logger().Debug("registered schema", zap.String("schema", name))
	return s, nil
}

// Load registers every schema in f, sorted by name, using the file's text
// encoding.
func (r *Registry) Load(f *File) ([]*Schema, error) {
	var opts []Option
	if f.Encoding != "" {
		enc, err := bufferplus.LookupEncoding(f.Encoding)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchema, err)
		}
		opts = append(opts, WithEncoding(enc))
	}
	names := make([]string, 0, len(f.Schemas))
	for name := range f.Schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]*Schema, 0, len(names))
	for _, name := range names {
		s, err := r.Register(name, f.Schemas[name], opts...)
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, nil
}

// LoadYAML parses a schema file and registers its schemas.
func (r *Registry) LoadYAML(data []byte) ([]*Schema, error) {
	f, err := ParseFile(data)
	if err != nil {
		return nil, err
	}
	return r.Load(f)
}

func (r *Registry) Lookup(name string) (*Schema, error) {
	r.mu.RLock()
	s, ok := r.schemas[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	return s, nil
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.schemas[name]
	return ok
}

// Names lists registered schemas in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// Encode writes obj to b with the named schema.
func (r *Registry) Encode(name string, b *bufferplus.Buffer, obj any, opts ...bufferplus.Option) error {
	s, err := r.Lookup(name)
	if err != nil {
		return err
	}
	return s.Encode(b, obj, opts...)
}

// Decode reads a record with the named schema into obj.
func (r *Registry) Decode(name string, b *bufferplus.Buffer, obj any, opts ...bufferplus.Option) (any, error) {
	s, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return s.Decode(b, obj, opts...)
}

func (r *Registry) ByteLength(name string, obj any) (int, error) {
	s, err := r.Lookup(name)
	if err != nil {
		return 0, err
	}
	return s.ByteLength(obj)
}

var defaultSchemas = NewRegistry()

// Schemas returns the process-wide schema registry.
func Schemas() *Registry { return defaultSchemas }

// Register compiles n into the process-wide registry.
func Register(name string, n *Node, opts ...Option) (*Schema, error) {
	return defaultSchemas.Register(name, n, opts...)
}

func Lookup(name string) (*Schema, error) { return defaultSchemas.Lookup(name) }

func Has(name string) bool { return defaultSchemas.Has(name) }

func Names() []string { return defaultSchemas.Names() }

func Encode(name string, b *bufferplus.Buffer, obj any, opts ...bufferplus.Option) error {
	return defaultSchemas.Encode(name, b, obj, opts...)
}

func Decode(name string, b *bufferplus.Buffer, obj any, opts ...bufferplus.Option) (any, error) {
	return defaultSchemas.Decode(name, b, obj, opts...)
}

func ByteLength(name string, obj any) (int, error) {
	return defaultSchemas.ByteLength(name, obj)
}
