package backends

// AuxKind classifies an auxiliary generated file.
type AuxKind string

const (
	// AuxManifest is a build manifest (csproj, package.json, Cargo.toml, ...).
	AuxManifest AuxKind = "manifest"

	// AuxRuntime is the thin runtime-support file defining the Result type
	// and effect hooks for targets that need one.
	AuxRuntime AuxKind = "runtime"

	// AuxLoader is host glue for browser or bytecode targets (an HTML page,
	// a JS instantiation shim, a build script).
	AuxLoader AuxKind = "loader"
)

// AuxFile is one auxiliary generated file.
type AuxFile struct {
	// Name is the file name relative to the target's output directory.
	Name string

	// Content is the complete file content.
	Content string

	// Kind classifies the file for reporting.
	Kind AuxKind
}

// BuildInstructions tells the caller how to build the generated output.
type BuildInstructions struct {
	// Command is the one-line build invocation, run from the target's
	// output directory.
	Command string
}

// GeneratedOutput is the result of one backend generation run.
type GeneratedOutput struct {
	// Source is the primary generated source text.
	Source string

	// SourceFileName is the file name for Source, including the target's
	// extension ("app.cs", "app.kt", ...).
	SourceFileName string

	// Files are the auxiliary files to write next to the source.
	Files []AuxFile

	// Dependencies lists target-level package dependencies beyond the
	// target's standard library.
	Dependencies []string

	// Build describes how to build the written output.
	Build BuildInstructions
}

// File returns the auxiliary file with the given name.
func (o *GeneratedOutput) File(name string) (AuxFile, bool) {
	for _, f := range o.Files {
		if f.Name == name {
			return f, true
		}
	}
	return AuxFile{}, false
}

// FilesOfKind returns the auxiliary files of one kind, in emission order.
func (o *GeneratedOutput) FilesOfKind(kind AuxKind) []AuxFile {
	var out []AuxFile
	for _, f := range o.Files {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// TotalBytes returns the size of the primary source plus all auxiliary
// files. The metrics collector records it per target.
func (o *GeneratedOutput) TotalBytes() int {
	n := len(o.Source)
	for _, f := range o.Files {
		n += len(f.Content)
	}
	return n
}
