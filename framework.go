package docpack

// Framework identifies a documentation site generator.
type Framework string

// Known documentation frameworks.
const (
	FrameworkUnknown     Framework = ""
	FrameworkDocusaurus  Framework = "docusaurus"
	FrameworkVitePress   Framework = "vitepress"
	FrameworkVuePress    Framework = "vuepress"
	FrameworkMkDocs      Framework = "mkdocs"
	FrameworkSphinx      Framework = "sphinx"
	FrameworkReadTheDocs Framework = "readthedocs"
	FrameworkGitBook     Framework = "gitbook"
	FrameworkNextra      Framework = "nextra"
	FrameworkMintlify    Framework = "mintlify"
	FrameworkDocsify     Framework = "docsify"
	FrameworkStarlight   Framework = "starlight"
	FrameworkMdBook      Framework = "mdbook"
	FrameworkReadme      Framework = "readme"
	FrameworkAntora      Framework = "antora"
)

// Frameworks returns every known framework, excluding FrameworkUnknown.
func Frameworks() []Framework {
	return []Framework{
		FrameworkDocusaurus,
		FrameworkVitePress,
		FrameworkVuePress,
		FrameworkMkDocs,
		FrameworkSphinx,
		FrameworkReadTheDocs,
		FrameworkGitBook,
		FrameworkNextra,
		FrameworkMintlify,
		FrameworkDocsify,
		FrameworkStarlight,
		FrameworkMdBook,
		FrameworkReadme,
		FrameworkAntora,
	}
}

// Valid reports whether f is one of the known frameworks.
func (f Framework) Valid() bool {
	for _, known := range Frameworks() {
		if f == known {
			return true
		}
	}
	return false
}

// String returns the framework name, or "unknown".
func (f Framework) String() string {
	if f == FrameworkUnknown {
		return "unknown"
	}
	return string(f)
}

// ParseFramework converts a name into a Framework.
// Unrecognized names yield FrameworkUnknown.
func ParseFramework(name string) Framework {
	f := Framework(name)
	if f.Valid() {
		return f
	}
	return FrameworkUnknown
}

// FrameworkDetector identifies documentation frameworks from HTML.
type FrameworkDetector interface {
	// Detect analyzes HTML and returns the identified framework.
	// Returns FrameworkUnknown if the framework cannot be determined.
	Detect(html string) Framework
}

// Inspector identifies documentation frameworks and determines their rendering requirements.
type Inspector interface {
	FrameworkDetector

	// RequiresJS indicates whether a framework requires JavaScript rendering.
	// Returns (requires, known) where known is false for FrameworkUnknown.
	RequiresJS(framework Framework) (requires bool, known bool)
}

// SidebarExtractor pulls the navigation page list out of a rendered page.
type SidebarExtractor interface {
	// ExtractPages returns the deduplicated in-site pages linked from the
	// page's sidebar. It returns an empty list when the markup does not
	// match the framework's expected structure.
	ExtractPages(html string, framework Framework, baseURL string) []DocPage
}
