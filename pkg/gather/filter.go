package gather

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// knownBinaryExts short-circuits content sniffing for extensions that are
// never worth fetching when binaries are skipped.
var knownBinaryExts = map[string]struct{}{
	"exe": {}, "dll": {}, "so": {}, "dylib": {}, "a": {}, "lib": {}, "o": {}, "obj": {},
	"zip": {}, "tar": {}, "gz": {}, "rar": {}, "7z": {}, "bz2": {}, "xz": {},
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "bmp": {}, "tiff": {}, "ico": {},
	"mp3": {}, "mp4": {}, "avi": {}, "mov": {}, "wmv": {}, "mkv": {}, "flv": {},
	"pdf": {}, "doc": {}, "docx": {}, "xls": {}, "xlsx": {}, "ppt": {}, "pptx": {},
	"woff": {}, "woff2": {}, "ttf": {}, "otf": {}, "eot": {},
	"db": {}, "sqlite": {}, "mdb": {},
	"pyc": {}, "pyo": {}, "pyd": {}, "class": {}, "jar": {}, "war": {},
}

// Filter decides, per candidate entry, whether it belongs in the document.
// It is a pure function of the entry and the compiled config; it performs no
// I/O.
type Filter struct {
	allowed     map[string]struct{}
	excluded    []string
	maxFileSize int64
	skipBinary  bool
}

// NewFilter compiles a Config into a Filter. Invalid glob patterns surface
// as a *ConfigError.
func NewFilter(cfg Config) (*Filter, error) {
	f := &Filter{
		excluded:    cfg.ExcludedPaths,
		maxFileSize: cfg.MaxFileSize,
		skipBinary:  cfg.SkipBinary,
	}
	if len(cfg.AllowedExtensions) > 0 {
		f.allowed = make(map[string]struct{}, len(cfg.AllowedExtensions))
		for _, ext := range cfg.AllowedExtensions {
			f.allowed[normalizeExt(ext)] = struct{}{}
		}
	}
	for _, pat := range f.excluded {
		if !doublestar.ValidatePattern(pat) {
			return nil, &ConfigError{Field: "excluded_paths", Reason: "invalid glob pattern " + pat}
		}
	}
	return f, nil
}

// ShouldInclude reports whether an entry passes every inclusion rule.
func (f *Filter) ShouldInclude(e Entry) bool {
	if e.IsDir {
		return false
	}
	if f.pathExcluded(e.Path) {
		return false
	}
	ext := entryExt(e.Path)
	if f.skipBinary {
		if _, bin := knownBinaryExts[ext]; bin {
			return false
		}
	}
	if f.allowed != nil {
		if _, ok := f.allowed[ext]; !ok {
			return false
		}
	}
	if f.maxFileSize > 0 && e.Size > f.maxFileSize {
		return false
	}
	return true
}

func (f *Filter) pathExcluded(rel string) bool {
	segments := strings.Split(rel, "/")
	base := segments[len(segments)-1]
	for _, pat := range f.excluded {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pat, base); err == nil && matched {
			return true
		}
		// Bare names exclude any matching path segment, so "node_modules"
		// works the way users expect without a **/ prefix.
		if !strings.ContainsAny(pat, "*?[{/") {
			for _, seg := range segments {
				if seg == pat {
					return true
				}
			}
		}
	}
	return false
}

func entryExt(p string) string {
	return normalizeExt(path.Ext(p))
}
