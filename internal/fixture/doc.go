// Package fixture loads symbol graphs from TOML files.
//
// A fixture describes the module being built, the assemblies it references
// and every type, member and method body the front end would hand to the
// translator. Types and members are named with type expressions:
//
//	Demo.Box<System.Int32>.Inner   nested type of a constructed generic
//	!T  !!U                        type and method type parameters by name
//	int32[]  int32[,]  int32*  int32&
//	Demo.Util::Id<string>          member reference with method arguments
//
// Loading runs in two passes so that declarations may refer to each other in
// any order.
package fixture

type fileDoc struct {
	Module     moduleDoc     `toml:"module"`
	Assemblies []assemblyDoc `toml:"assembly"`
	Types      []typeDoc     `toml:"type"`
}

type moduleDoc struct {
	Name     string `toml:"name"`
	Assembly string `toml:"assembly"`
	Version  string `toml:"version"`
}

type assemblyDoc struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	// Modules lists secondary modules; the primary module is always "<name>.dll".
	Modules []string `toml:"modules"`
}

type typeDoc struct {
	// Unit is empty for the module being built, an assembly name for its
	// primary module, or "assembly/module" for a secondary module.
	Unit       string       `toml:"unit"`
	Namespace  string       `toml:"namespace"`
	Name       string       `toml:"name"`
	Kind       string       `toml:"kind"`
	Access     string       `toml:"access"`
	Special    string       `toml:"special"`
	Flags      []string     `toml:"flags"`
	Base       string       `toml:"base"`
	Interfaces []string     `toml:"interfaces"`
	Generic    []genericDoc `toml:"generic"`
	Fields     []fieldDoc   `toml:"field"`
	Methods    []methodDoc  `toml:"method"`
	Nested     []typeDoc    `toml:"nested"`
}

type genericDoc struct {
	Name        string   `toml:"name"`
	Variance    string   `toml:"variance"`
	Flags       []string `toml:"flags"`
	Constraints []string `toml:"constraints"`
}

type fieldDoc struct {
	Name   string   `toml:"name"`
	Type   string   `toml:"type"`
	Access string   `toml:"access"`
	Flags  []string `toml:"flags"`
	Modreq []string `toml:"modreq"`
	Modopt []string `toml:"modopt"`
}

type methodDoc struct {
	Name    string       `toml:"name"`
	Returns string       `toml:"returns"`
	Access  string       `toml:"access"`
	Flags   []string     `toml:"flags"`
	Generic []genericDoc `toml:"generic"`
	Params  []paramDoc   `toml:"param"`
	Body    *bodyDoc     `toml:"body"`
}

type paramDoc struct {
	Name   string   `toml:"name"`
	Type   string   `toml:"type"`
	Flags  []string `toml:"flags"`
	Modreq []string `toml:"modreq"`
	Modopt []string `toml:"modopt"`
}

type bodyDoc struct {
	MaxStack       *int       `toml:"max_stack"`
	Locals         []localDoc `toml:"locals"`
	Scopes         []uint32   `toml:"scopes"`
	SequencePoints []seqDoc   `toml:"sequence_points"`
	IL             []string   `toml:"il"`
}

type localDoc struct {
	Name   string `toml:"name"`
	Type   string `toml:"type"`
	Pinned bool   `toml:"pinned"`
	ByRef  bool   `toml:"byref"`
}

type seqDoc struct {
	Offset    uint32 `toml:"offset"`
	Document  string `toml:"document"`
	Line      uint32 `toml:"line"`
	Column    uint32 `toml:"column"`
	EndLine   uint32 `toml:"end_line"`
	EndColumn uint32 `toml:"end_column"`
}
