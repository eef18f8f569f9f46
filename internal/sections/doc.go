// Package sections detects section headers for the folding and minimap
// subsystem.
//
// Two collectors feed one aggregator:
//
//   - Region headers come from a language's folding region start marker
//     (for example "// #region Setup") matched line by line.
//   - Mark headers come from a user configurable regular expression such as
//     `\bMARK:\s*(?<separator>-?)\s*(?<label>.*)$`. The pattern may span
//     several lines; the document is scanned in overlapping chunks of
//     ChunkSize lines so no single scan ever joins the whole buffer.
//
// # Regular expressions
//
// Patterns are compiled through an Engine. Regexp2Engine (the default)
// accepts the syntax editors usually expose, including named groups written
// as (?<name>...) and lookaround, and enforces a match timeout.
// StdEngine uses the standard library's RE2 implementation, which runs in
// linear time but rejects backreferences and lookaround.
//
// Scanning keeps an explicit cursor per chunk instead of relying on mutable
// state inside the compiled pattern, so a Pattern may be shared between
// goroutines.
//
// # Basic Usage
//
//	headers := sections.FindSectionHeaders(model, sections.Options{
//		FindMarkSectionHeaders: true,
//		MarkSectionHeaderRegex: sections.DefaultMarkSectionHeaderRegex,
//	})
//	for _, h := range headers {
//		fmt.Println(h.Range.StartLineNumber, h.Text)
//	}
package sections
