package classfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// location points at where a class's bytes live: either a plain file on
// disk or an entry inside a zip/jar archive.
type location struct {
	diskPath  string // set when the class is a loose .class file
	archive   string // set when the class lives inside a jar/zip
	entryName string
}

// Record is a resolved class: either a fully parsed ClassFile, or a
// synthetic empty record substituted for a name the search path does not
// contain (spec.md §4.1: "the analyzer substitutes a synthetic record with
// no fields and no methods so that introspection falls back to an empty
// object schema and the run continues").
type Record struct {
	FQCN      string
	Synthetic bool
	Class     *ClassFile
}

// Resolver is the Class Resolver (C1). It is immutable after Open — the
// location index is built once and never mutated, so Get is lock-free on
// the index (spec.md §5); only the parsed-class cache behind it is
// concurrent, coordinated with singleflight so that two workers resolving
// the same fqcn cooperate instead of double-parsing.
type Resolver struct {
	index          map[string]location // fqcn -> location, project takes precedence
	projectClasses []string            // fqcn set scanned for resources (C6)

	cache sync.Map // fqcn -> *Record
	group singleflight.Group

	onResolutionError func(fqcn string, err error)
}

// Option configures a Resolver at Open time.
type Option func(*Resolver)

// WithResolutionErrorSink registers a callback invoked whenever a class
// byte stream fails to parse (a ResolutionError/DecodeError per spec.md §7);
// the resolver still returns a synthetic record so analysis continues.
func WithResolutionErrorSink(fn func(fqcn string, err error)) Option {
	return func(r *Resolver) { r.onResolutionError = fn }
}

// Open builds the search-path index over projectPaths (scanned for
// resources) and classPaths (searched only for type resolution), per
// spec.md §6 ("Input"). A missing project path is a usage error (fatal),
// matching spec.md §6's exit-behavior contract.
func Open(projectPaths, classPaths []string, opts ...Option) (*Resolver, error) {
	r := &Resolver{index: map[string]location{}}
	for _, o := range opts {
		o(r)
	}
	for _, p := range projectPaths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("usage error: project path %q does not exist: %w", p, err)
		}
		names, err := r.indexPath(p, true)
		if err != nil {
			return nil, fmt.Errorf("usage error: indexing project path %q: %w", p, err)
		}
		r.projectClasses = append(r.projectClasses, names...)
	}
	for _, p := range classPaths {
		if _, err := os.Stat(p); err != nil {
			// Dependency archives are best-effort; a missing one degrades
			// to "those classes resolve synthetically" rather than aborting
			// the whole run.
			continue
		}
		if _, err := r.indexPath(p, false); err != nil {
			continue
		}
	}
	return r, nil
}

// indexPath walks one project or classpath entry (directory or zip/jar) and
// records every fqcn -> location it finds. When project is true, entries
// overwrite any classpath entry already indexed for the same name (project
// classes take precedence on name collision, spec.md §4.1); classpath
// entries never overwrite an existing project entry.
func (r *Resolver) indexPath(root string, project bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	var names []string
	put := func(fqcn string, loc location) {
		if !project {
			if _, exists := r.index[fqcn]; exists {
				return
			}
		}
		r.index[fqcn] = loc
		if project {
			names = append(names, fqcn)
		}
	}
	if info.IsDir() {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".class") {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			fqcn := CanonicalName(strings.TrimSuffix(filepath.ToSlash(rel), ".class"))
			put(fqcn, location{diskPath: path})
			return nil
		})
		return names, err
	}
	if strings.HasSuffix(root, ".jar") || strings.HasSuffix(root, ".zip") {
		zr, err := zip.OpenReader(root)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		for _, f := range zr.File {
			if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".class") {
				continue
			}
			fqcn := CanonicalName(strings.TrimSuffix(f.Name, ".class"))
			put(fqcn, location{archive: root, entryName: f.Name})
		}
		return names, nil
	}
	return names, fmt.Errorf("unsupported project/classpath entry %q (expected directory, .jar, or .zip)", root)
}

// ProjectClasses returns every fully qualified class name discovered under
// the project paths — the set the Annotation/Resource Extractor (C6) scans.
func (r *Resolver) ProjectClasses() []string {
	out := make([]string, len(r.projectClasses))
	copy(out, r.projectClasses)
	return out
}

// Get resolves fqcn to a Record, parsing and caching on first use. Missing
// or unparseable classes never fail the call: they yield a synthetic
// record (spec.md §4.1, §7 ResolutionError/DecodeError: "logged,
// substituted").
func (r *Resolver) Get(fqcn string) *Record {
	if v, ok := r.cache.Load(fqcn); ok {
		return v.(*Record)
	}
	rec, _, _ := r.group.Do(fqcn, func() (any, error) {
		rec := r.resolve(fqcn)
		r.cache.Store(fqcn, rec)
		return rec, nil
	})
	return rec.(*Record)
}

func (r *Resolver) resolve(fqcn string) *Record {
	loc, ok := r.index[fqcn]
	if !ok {
		if r.onResolutionError != nil {
			r.onResolutionError(fqcn, fmt.Errorf("class not found on search path"))
		}
		return &Record{FQCN: fqcn, Synthetic: true}
	}
	data, err := r.readLocation(loc)
	if err != nil {
		if r.onResolutionError != nil {
			r.onResolutionError(fqcn, err)
		}
		return &Record{FQCN: fqcn, Synthetic: true}
	}
	cf, err := Parse(bytes.NewReader(data))
	if err != nil {
		if r.onResolutionError != nil {
			r.onResolutionError(fqcn, err)
		}
		return &Record{FQCN: fqcn, Synthetic: true}
	}
	return &Record{FQCN: fqcn, Class: cf}
}

func (r *Resolver) readLocation(loc location) ([]byte, error) {
	if loc.diskPath != "" {
		return os.ReadFile(loc.diskPath)
	}
	zr, err := zip.OpenReader(loc.archive)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != loc.entryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		buf := make([]byte, f.UncompressedSize64)
		if _, err := io.ReadFull(rc, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	return nil, fmt.Errorf("entry %q not found in %q", loc.entryName, loc.archive)
}

// Close releases resolver resources. The resolver itself holds no open
// file handles between Get calls, so Close is a no-op retained to satisfy
// the open/get/close contract of spec.md §4.1.
func (r *Resolver) Close() error { return nil }
