package codemod

import "fmt"

// DiagnosticKind classifies a non-fatal transform warning.
type DiagnosticKind string

const (
	// DiagDefaultExportConflict means the module already has a default export
	// and also contains a legacy chain. Resolving that needs a human.
	DiagDefaultExportConflict DiagnosticKind = "default_export_conflict"

	// DiagMultipleChains means more than one independent chain root was found.
	// Only single-chain files are rewritten automatically.
	DiagMultipleChains DiagnosticKind = "multiple_chains"

	// DiagBindingReferenced means the chain is bound to a variable the rest of
	// the module still uses. Excising the declaration would orphan those uses.
	DiagBindingReferenced DiagnosticKind = "binding_referenced"
)

// Diagnostic is a structured per-file warning. The transform never writes to a
// shared sink; diagnostics travel back to the caller on the Result.
type Diagnostic struct {
	Kind    DiagnosticKind
	Path    string
	Message string
}

func (d Diagnostic) String() string {
	return d.Message
}

func defaultExportConflict(path string) Diagnostic {
	return Diagnostic{
		Kind:    DiagDefaultExportConflict,
		Path:    path,
		Message: fmt.Sprintf("ambiguous default export + chain found, skipping: %s", path),
	}
}

func multipleChains(path string) Diagnostic {
	return Diagnostic{
		Kind:    DiagMultipleChains,
		Path:    path,
		Message: fmt.Sprintf("multiple chains found, manual fix required: %s", path),
	}
}

func bindingReferenced(path, name string) Diagnostic {
	return Diagnostic{
		Kind:    DiagBindingReferenced,
		Path:    path,
		Message: fmt.Sprintf("chain binding %q is used elsewhere, manual fix required: %s", name, path),
	}
}
