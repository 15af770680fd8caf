package gather

import (
	"path"
	"regexp"
)

// commentPatterns maps an extension to the regexes that strip its comments.
// Patterns run in order; regex-based stripping is approximate (comment-like
// text inside string literals is removed too), which is why the option is
// off by default.
var commentPatterns = map[string][]*regexp.Regexp{}

var (
	cBlock    = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	cLine     = regexp.MustCompile(`(?m)//.*$`)
	hashLine  = regexp.MustCompile(`(?m)#.*$`)
	xmlBlock  = regexp.MustCompile(`<!--[\s\S]*?-->`)
	pyDocA    = regexp.MustCompile(`"""[\s\S]*?"""`)
	pyDocB    = regexp.MustCompile(`'''[\s\S]*?'''`)
	rubyBlock = regexp.MustCompile(`(?m)^=begin[\s\S]*?^=end`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

func init() {
	cStyle := []*regexp.Regexp{cBlock, cLine}
	for _, ext := range []string{"go", "js", "ts", "tsx", "jsx", "c", "cpp", "h", "hpp", "java", "cs", "swift", "kt", "rs", "scala", "scss", "less"} {
		commentPatterns[ext] = cStyle
	}
	commentPatterns["py"] = []*regexp.Regexp{pyDocA, pyDocB, hashLine}
	commentPatterns["sh"] = []*regexp.Regexp{hashLine}
	commentPatterns["yaml"] = []*regexp.Regexp{hashLine}
	commentPatterns["yml"] = []*regexp.Regexp{hashLine}
	commentPatterns["toml"] = []*regexp.Regexp{hashLine}
	commentPatterns["rb"] = []*regexp.Regexp{rubyBlock, hashLine}
	commentPatterns["html"] = []*regexp.Regexp{xmlBlock}
	commentPatterns["xml"] = []*regexp.Regexp{xmlBlock}
	commentPatterns["css"] = []*regexp.Regexp{cBlock}
}

// StripComments removes comments from text according to the file's
// extension. Unknown extensions come back untouched.
func StripComments(filePath, text string) string {
	patterns, ok := commentPatterns[normalizeExt(path.Ext(filePath))]
	if !ok {
		return text
	}
	for _, pat := range patterns {
		text = pat.ReplaceAllString(text, "")
	}
	return blankRuns.ReplaceAllString(text, "\n\n")
}
