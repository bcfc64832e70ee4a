package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"taskpaper/internal/db"
	"taskpaper/pkg/outline"
)

type searchOptions struct {
	input       string
	descendants bool
	sortBy      string
}

// searchCmd returns the search command.
func (a *app) searchCmd() *Command {
	flags := flag.NewFlagSet("search", flag.ContinueOnError)
	input := flags.StringP("input", "i", "", "Search a single file instead of the whole database")
	descendants := flags.BoolP("descendants", "d", false, "Print notes and children of every result")
	sortBy := flags.StringP("sort-by", "s", "",
		"Comma separated attribute names to sort by; prefix with - for descending")

	cmd := &Command{
		Flags: flags,
		Usage: "search <query> [flags]",
		Short: "Find items matching a query",
		Long: "Run a query against the database (or one file with --input) and\n" +
			"print every match as path:line:item. Configured aliases are\n" +
			"expanded before the query is parsed.",
	}
	cmd.Exec = func(_ context.Context, o *IO, args []string) error {
		return a.execSearch(o, searchOptions{
			input:       *input,
			descendants: *descendants,
			sortBy:      *sortBy,
		}, args)
	}

	return cmd
}

// searchMatch is one query hit, remembering the document it came from.
type searchMatch struct {
	document *outline.Document
	path     string
	line     int
	id       outline.NodeID
}

func (a *app) execSearch(o *IO, opts searchOptions, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return ErrQueryRequired
	}

	query = a.cfg.ApplyAliases(query)

	files, err := a.searchFiles(o, opts.input)
	if err != nil {
		return err
	}

	var matches []searchMatch

	for _, file := range files {
		ids, searchErr := file.document.Search(query)
		if searchErr != nil {
			return searchErr
		}

		for _, id := range ids {
			line, _ := file.document.Item(id).Line()
			matches = append(matches, searchMatch{
				document: file.document,
				path:     file.path,
				line:     line,
				id:       id,
			})
		}
	}

	if opts.sortBy != "" {
		sortMatches(matches, parseSortKeys(opts.sortBy))
	}

	for _, m := range matches {
		o.Printf("%s:%d:%s", m.path, m.line, m.document.NodeString(m.id))

		if opts.descendants {
			item := m.document.Item(m.id)
			// The node itself has already been printed.
			for _, child := range m.document.Descendants(m.id)[1:] {
				indent := m.document.Item(child).Indent - item.Indent
				o.Printf("%s%s", strings.Repeat("\t", indent), m.document.NodeString(child))
			}
		}
	}

	return nil
}

type searchFile struct {
	path     string
	document *outline.Document
}

// searchFiles returns the documents a search runs over, ordered by path.
// Files the walker had to skip surface as warnings instead of failing the
// whole search.
func (a *app) searchFiles(o *IO, input string) ([]searchFile, error) {
	if input != "" {
		path := a.resolvePath(input)

		document, err := outline.ParseFile(path)
		if err != nil {
			return nil, err
		}

		return []searchFile{{path: input, document: document}}, nil
	}

	database, err := db.New(a.cfg.DatabaseAbs, nil)
	if err != nil {
		return nil, err
	}

	documents, err := database.ParseAll()
	if err != nil {
		return nil, err
	}

	all, err := database.Files()
	if err != nil {
		return nil, err
	}

	for _, rel := range all {
		if _, ok := documents[rel]; !ok {
			o.Warn("skipped unreadable file "+rel, "fix or remove it so it can be searched")
		}
	}

	files := make([]searchFile, 0, len(documents))

	for rel, document := range documents {
		if a.cfg.Search.Excluded(filepath.Base(rel)) {
			continue
		}

		files = append(files, searchFile{
			path:     filepath.Join(database.Root(), rel),
			document: document,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })

	return files, nil
}

type sortKey struct {
	attr       string
	descending bool
}

func parseSortKeys(s string) []sortKey {
	var keys []sortKey

	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(entry, "-"); ok {
			keys = append(keys, sortKey{attr: rest, descending: true})
		} else {
			keys = append(keys, sortKey{attr: entry})
		}
	}

	return keys
}

// sortMatches orders matches by the requested attribute values; items without
// the attribute sort before items that have it. Path and line break ties.
func sortMatches(matches []searchMatch, keys []sortKey) {
	value := func(m searchMatch, attr string) (string, bool) {
		a, ok := m.document.Item(m.id).Attrs.Get(attr)
		if !ok || !a.HasValue {
			return "", false
		}

		return a.Value, true
	}

	sort.SliceStable(matches, func(i, j int) bool {
		for _, key := range keys {
			vi, oki := value(matches[i], key.attr)
			vj, okj := value(matches[j], key.attr)

			if vi == vj && oki == okj {
				continue
			}

			less := !oki && okj || oki == okj && vi < vj
			if key.descending {
				return !less
			}

			return less
		}

		if matches[i].path != matches[j].path {
			return matches[i].path < matches[j].path
		}

		return fmt.Sprintf("%05d", matches[i].line) < fmt.Sprintf("%05d", matches[j].line)
	})
}
