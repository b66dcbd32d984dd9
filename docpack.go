// Package docpack turns a documentation site into a single printable
// document. It discovers a site's page list through a prioritized chain of
// sources (llms.txt, sitemaps, a vendor catalog API, sidebar scraping),
// fetches every page as Markdown, filters anti-bot block pages and
// assembles the result into one HTML document with a table of contents.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package docpack
