package serialize

import (
	"io"
	"strings"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
)

// pyClass identifies a python class referenced by a pickle stream.
type pyClass struct {
	Module string
	Name   string
}

// pyStandin substitutes every class during a probe so arbitrary pickles can
// be walked without the original class definitions. Instantiating it in any
// of the pickle protocols yields a recording [pyObject].
type pyStandin struct {
	class pyClass
}

func (c *pyStandin) Call(args ...any) (any, error) {
	return &pyObject{class: c.class, attrs: make(map[string]any)}, nil
}

func (c *pyStandin) PyNew(args ...any) (any, error) {
	return c.Call(args...)
}

// pyObject records the attributes assigned to one reconstructed object.
type pyObject struct {
	class pyClass
	attrs map[string]any
}

func (o *pyObject) PySetState(state any) error {
	if d, ok := state.(*types.Dict); ok {
		for _, entry := range *d {
			if k, ok := entry.Key.(string); ok {
				o.attrs[k] = entry.Value
			}
		}
	}
	return nil
}

func (o *pyObject) PyDictSet(key, value any) error {
	if k, ok := key.(string); ok {
		o.attrs[k] = value
	}
	return nil
}

func (o *pyObject) PySetAttr(key string, value any) error {
	o.attrs[key] = value
	return nil
}

// pickleProbe is the outcome of structurally unpickling an artifact.
type pickleProbe struct {
	globals []pyClass
	root    any
}

// probePickle walks a pickle stream, recording every referenced class and
// the attribute state of every reconstructed object. Nothing is executed;
// storages referenced through persistent IDs are passed through untouched.
func probePickle(r io.Reader) (*pickleProbe, error) {
	p := &pickleProbe{}

	u := pickle.NewUnpickler(r)
	u.FindClass = func(module, name string) (any, error) {
		class := pyClass{Module: module, Name: name}
		p.globals = append(p.globals, class)
		return &pyStandin{class: class}, nil
	}
	u.PersistentLoad = func(id any) (any, error) {
		return id, nil
	}

	root, err := u.Load()
	if err != nil {
		return nil, err
	}

	p.root = root
	return p, nil
}

// hasModule reports whether any recorded class lives in the given package
// or one of its subpackages.
func (p *pickleProbe) hasModule(pkg string) bool {
	for _, class := range p.globals {
		if class.Module == pkg || strings.HasPrefix(class.Module, pkg+".") {
			return true
		}
	}
	return false
}

// rootClassName returns the class name of the pickled root object, or ""
// when the root is not an object (a bare dict or list).
func (p *pickleProbe) rootClassName() string {
	if obj, ok := p.root.(*pyObject); ok {
		return obj.class.Name
	}
	return ""
}

// fitted reports whether any reconstructed object carries fitted state.
// sklearn estimators persist learned state as attributes with a trailing
// underscore; an estimator pickled before training has none, anywhere in
// the object graph.
func (p *pickleProbe) fitted() bool {
	return anyFitted(p.root, make(map[*pyObject]bool))
}

func anyFitted(v any, seen map[*pyObject]bool) bool {
	switch t := v.(type) {
	case *pyObject:
		if seen[t] {
			return false
		}
		seen[t] = true
		for k, attr := range t.attrs {
			if isFittedAttr(k) || anyFitted(attr, seen) {
				return true
			}
		}
	case *types.Dict:
		for _, entry := range *t {
			if anyFitted(entry.Value, seen) {
				return true
			}
		}
	case *types.List:
		for _, item := range *t {
			if anyFitted(item, seen) {
				return true
			}
		}
	case *types.Tuple:
		for _, item := range *t {
			if anyFitted(item, seen) {
				return true
			}
		}
	}
	return false
}

func isFittedAttr(name string) bool {
	return strings.HasSuffix(name, "_") && !strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "__")
}
