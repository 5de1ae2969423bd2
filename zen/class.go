package zen

// Property is a declared class property. For static properties Value is the
// shared cell; for instance properties it is the default copied into every
// new instance.
type Property struct {
	Name   string
	Access AccessModifier
	Static bool
	Value  Value
}

// Class is the runtime descriptor built from a class definition.
type Class struct {
	Name          string
	Parent        *Class
	Methods       map[string][]*MethodDef
	StaticMethods map[string][]*MethodDef
	Properties    map[string]*Property
	propertyOrder []string
	source        string
}

func newClass(name string, parent *Class, source string) *Class {
	return &Class{
		Name:          name,
		Parent:        parent,
		Methods:       make(map[string][]*MethodDef),
		StaticMethods: make(map[string][]*MethodDef),
		Properties:    make(map[string]*Property),
		source:        source,
	}
}

func (c *Class) addMethod(m *MethodDef) {
	if m.Static {
		c.StaticMethods[m.Name] = append(c.StaticMethods[m.Name], m)
		return
	}
	c.Methods[m.Name] = append(c.Methods[m.Name], m)
}

func (c *Class) addProperty(p *Property) {
	if _, ok := c.Properties[p.Name]; !ok {
		c.propertyOrder = append(c.propertyOrder, p.Name)
	}
	c.Properties[p.Name] = p
}

// selectOverload picks the first overload whose parameter count equals
// argc, falling back to the first declared overload.
func selectOverload(overloads []*MethodDef, argc int) *MethodDef {
	for _, m := range overloads {
		if len(m.Params) == argc {
			return m
		}
	}
	if len(overloads) > 0 {
		return overloads[0]
	}
	return nil
}

// FindMethod resolves an instance method, walking to the parent only when
// this class declares no method of that name. The class that declared the
// method is returned alongside it.
func (c *Class) FindMethod(name string, argc int) (*MethodDef, *Class) {
	for class := c; class != nil; class = class.Parent {
		if overloads, ok := class.Methods[name]; ok {
			return selectOverload(overloads, argc), class
		}
	}
	return nil, nil
}

func (c *Class) FindStaticMethod(name string, argc int) (*MethodDef, *Class) {
	for class := c; class != nil; class = class.Parent {
		if overloads, ok := class.StaticMethods[name]; ok {
			return selectOverload(overloads, argc), class
		}
	}
	return nil, nil
}

func (c *Class) HasProperty(name string) bool {
	return c.FindProperty(name) != nil
}

func (c *Class) FindProperty(name string) *Property {
	for class := c; class != nil; class = class.Parent {
		if prop, ok := class.Properties[name]; ok {
			return prop
		}
	}
	return nil
}

// Instance is an object created by `new`. Its property map is open: writes
// to undeclared names add dynamic properties.
type Instance struct {
	Class      *Class
	Properties map[string]Value
}

// newInstance seeds instance properties from every class in the chain,
// ancestors first so subclasses override inherited defaults.
func newInstance(class *Class) *Instance {
	inst := &Instance{Class: class, Properties: make(map[string]Value)}
	var chain []*Class
	for c := class; c != nil; c = c.Parent {
		chain = append(chain, c)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		c := chain[i]
		for _, name := range c.propertyOrder {
			prop := c.Properties[name]
			if prop.Static {
				continue
			}
			inst.Properties[name] = prop.Value.DeepCopy()
		}
	}
	return inst
}

// GetProperty reads the local map first, then the shared cell of a static
// property. internal reports whether the receiver was `this`.
func (inst *Instance) GetProperty(name string, internal bool) (Value, error) {
	prop := inst.Class.FindProperty(name)
	if prop != nil && prop.Access == AccessPrivate && !internal {
		return Value{}, NewError(ErrAccess, "cannot access private property '%s' of %s", name, inst.Class.Name)
	}
	if val, ok := inst.Properties[name]; ok {
		return val, nil
	}
	if prop != nil && prop.Static {
		return prop.Value, nil
	}
	return Value{}, NewError(ErrLookup, "property '%s' not found on %s", name, inst.Class.Name)
}

// SetProperty writes through to the static cell for static properties and
// to the local map otherwise.
func (inst *Instance) SetProperty(name string, val Value, internal bool) error {
	prop := inst.Class.FindProperty(name)
	if prop == nil {
		inst.Properties[name] = val
		return nil
	}
	if prop.Access == AccessPrivate && !internal {
		return NewError(ErrAccess, "cannot access private property '%s' of %s", name, inst.Class.Name)
	}
	if prop.Static {
		prop.Value = val
		return nil
	}
	inst.Properties[name] = val
	return nil
}

// HasMethod reports whether any class in the chain declares name.
func (inst *Instance) HasMethod(name string) bool {
	m, _ := inst.Class.FindMethod(name, 0)
	return m != nil
}

// findStaticProperty resolves a static property through the chain.
// inherits reports whether c is ancestor or one of its parents.
func (c *Class) inherits(ancestor *Class) bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

func (c *Class) findStaticProperty(name string) *Property {
	prop := c.FindProperty(name)
	if prop == nil || !prop.Static {
		return nil
	}
	return prop
}
