package permissions

// StaticOracle is a PermissionOracle backed by fixed entity lists, typically
// loaded from configuration for the service principal. A single "*" entry
// grants every entity. Tests use it to build synthetic principals.
type StaticOracle struct {
	read   map[string]bool
	create map[string]bool

	readAll   bool
	createAll bool
}

// NewStaticOracle builds an oracle from read/create entity lists.
func NewStaticOracle(read, create []string) *StaticOracle {
	o := &StaticOracle{
		read:   make(map[string]bool, len(read)),
		create: make(map[string]bool, len(create)),
	}
	for _, entity := range read {
		if entity == "*" {
			o.readAll = true
			continue
		}
		o.read[entity] = true
	}
	for _, entity := range create {
		if entity == "*" {
			o.createAll = true
			continue
		}
		o.create[entity] = true
	}
	return o
}

// HasReadPermission reports whether the principal may read the entity.
func (o *StaticOracle) HasReadPermission(entity string) bool {
	return o.readAll || o.read[entity]
}

// HasCreatePermission reports whether the principal may create records of
// the entity.
func (o *StaticOracle) HasCreatePermission(entity string) bool {
	return o.createAll || o.create[entity]
}
