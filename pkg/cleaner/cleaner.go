// Package cleaner defines the Cleaner abstraction shared by the scrub pipeline
// and the output converters that run after it.
package cleaner

// Cleaner transforms HTML content. Implementations are safe to reuse across
// calls but not required to be safe for concurrent use.
type Cleaner interface {
	// Clean transforms the input HTML. The output format depends on the
	// implementation (html, plain text, markdown).
	Clean(html string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
