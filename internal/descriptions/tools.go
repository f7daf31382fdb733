package descriptions

import (
	"sort"
	"strings"
)

// Tool descriptions with practical examples; the first line is the summary

const (
	PDFCheckExtensionDescription = `Check whether a file name carries an allowed extension, without opening the file.

**When to use:** Before handing a path to another tool, or to learn why a path was rejected.

**How it works:** The extension is everything after the last dot of the file name (the whole name when there is no dot). Matching is case-sensitive: "report.PDF" is rejected when only "pdf" is allowed.

**Examples:**
• "Is scans/invoice-2024.pdf something you can analyse?"
• "Why was notes.txt rejected?"

**Best practices:** Call pdf_server_info to see the configured allow-list.`

	PDFReadTextDescription = `Extract the text of every page of a PDF file in document order.

**When to use:** Need the raw text of a document for reading, quoting or further analysis.

**How it works:** Pages are concatenated in order. Files that cannot be opened or parsed are reported as "no such file"; files that load but whose text cannot be stripped are reported as "text extraction failed".

**Examples:**
• "Get all text from research-paper.pdf"
• "Read invoice-2024-001.pdf to find the totals"

**Best practices:** Use pdf_words or pdf_match_keywords when only the vocabulary matters.`

	PDFWordsDescription = `List the distinct words of a PDF file.

**When to use:** Need a vocabulary overview of a document or a word count.

**How it works:** Line breaks, tabs and carriage returns become spaces, the text is lowercased, punctuation is removed, and only tokens made entirely of the letters a-z are kept. Duplicates collapse to one entry.

**Examples:**
• "Which words does contract.pdf use?"
• "How many distinct words are in chapter-3.pdf?"

**Best practices:** Tokens containing digits or accented letters are dropped, so "foo123" and "café" never appear.`

	PDFMatchKeywordsDescription = `Report which keywords occur as words in a PDF file.

**When to use:** Screening documents for topics, compliance terms or required phrases.

**How it works:** The document's distinct words are intersected with the keywords. Keywords are not normalized: give them lowercase and without punctuation. When no keywords are passed, the server's default keyword file is used.

**Examples:**
• "Does policy.pdf mention gdpr, retention or deletion?"
• "Match the default keywords against invoice.pdf"

**Best practices:** Single words only; phrases never match because the text is split on spaces.`

	PDFDocumentSummaryDescription = `Report the file size of a PDF and whether any page contains an image.

**When to use:** Deciding whether a document is a scan, or checking size before further processing.

**How it works:** The size is the file length in bytes. Pages are scanned in order and the scan stops at the first page whose resources hold an image. Images drawn only inside form XObjects do not count. A document that cannot be parsed still gets a summary: has_image is false and degraded explains why.

**Examples:**
• "Is scanned-contract.pdf made of images?"
• "How large is annual-report.pdf?"

**Best practices:** Check degraded before trusting has_image=false.`

	PDFServerInfoDescription = `Get server configuration, allowed extensions and available tools.

**When to use:** At the start of a session to learn the base directory, limits and tool set.

**Examples:**
• "What can this server do?"
• "Which file extensions are accepted?"`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"pdf_check_extension":  PDFCheckExtensionDescription,
	"pdf_read_text":        PDFReadTextDescription,
	"pdf_words":            PDFWordsDescription,
	"pdf_match_keywords":   PDFMatchKeywordsDescription,
	"pdf_document_summary": PDFDocumentSummaryDescription,
	"pdf_server_info":      PDFServerInfoDescription,
}

// GetToolDescription returns the full description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetToolSummary returns the first line of a tool's description
func GetToolSummary(toolName string) string {
	desc := GetToolDescription(toolName)
	if i := strings.IndexByte(desc, '\n'); i >= 0 {
		return desc[:i]
	}
	return desc
}

// GetAllToolNames returns all described tool names, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
