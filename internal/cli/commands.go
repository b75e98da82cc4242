package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfxref"
	"github.com/tsawler/pdfxref/core"
	"github.com/tsawler/pdfxref/resolver"
)

func newTrailerCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "trailer <file>",
		Short: "Print the merged trailer dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.open(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			writeTitle(w, "Trailer")
			writeDict(w, doc.Trailer())
			return nil
		},
	}
}

func newXRefCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "xref <file>",
		Short: "List the merged cross-reference entries and the sections walked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.open(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			table := doc.XRef()

			writeTitle(w, "Sections")
			for i, off := range table.Sections {
				writeField(w, fmt.Sprintf("#%d", i), fmt.Sprintf("offset %d", off))
			}

			writeTitle(w, fmt.Sprintf("Entries (%d)", table.Size()))
			for _, num := range table.Numbers() {
				e, _ := table.Get(num)
				writeEntry(w, num, e)
			}
			return nil
		},
	}
}

func newObjectCommand(opts *options) *cobra.Command {
	var deep, raw bool

	cmd := &cobra.Command{
		Use:   "object <file> <num> [gen]",
		Short: "Print one object",
		Long: `Print one indirect object. Streams show their dictionary and a summary of
the decoded data; --raw writes the undecoded stream data instead.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseObjectID(args[1:])
			if err != nil {
				return err
			}

			doc, err := opts.open(args[0])
			if err != nil {
				return err
			}

			var obj core.Object
			if deep {
				obj, err = resolver.NewResolver(doc).GetObjectResolvedDeep(id)
			} else {
				obj, err = doc.GetObject(id)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			s, isStream := obj.(*core.Stream)
			if raw {
				if !isStream {
					return fmt.Errorf("object %s is %v, not a stream", id, obj.Type())
				}
				_, err := w.Write(s.Data)
				return err
			}

			writeTitle(w, fmt.Sprintf("%s obj", id))
			if !isStream {
				fmt.Fprintf(w, "  %s\n", obj)
				return nil
			}

			writeDict(w, s.Dict)
			decoded, err := doc.DecodeStream(s)
			if err != nil {
				writeField(w, "data", fmt.Sprintf("%d bytes at offset %d, %s", len(s.Data), s.Offset, errorStyle.Render(err.Error())))
				return nil
			}
			writeField(w, "data", fmt.Sprintf("%d bytes at offset %d, %d decoded", len(s.Data), s.Offset, len(decoded)))
			writeField(w, "preview", preview(decoded, 64))
			return nil
		},
	}

	cmd.Flags().BoolVar(&deep, "deep", false, "Replace every nested reference with the object it names")
	cmd.Flags().BoolVar(&raw, "raw", false, "Write the raw stream data")
	return cmd
}

func parseObjectID(args []string) (core.ObjectID, error) {
	num, err := strconv.Atoi(args[0])
	if err != nil || num < 0 {
		return core.ObjectID{}, fmt.Errorf("invalid object number %q", args[0])
	}
	id := core.ObjectID{Number: num}
	if len(args) > 1 {
		gen, err := strconv.Atoi(args[1])
		if err != nil || gen < 0 || gen > 65535 {
			return core.ObjectID{}, fmt.Errorf("invalid generation number %q", args[1])
		}
		id.Generation = gen
	}
	return id, nil
}

func newInfoCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print the version and the document information dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.open(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			writeTitle(w, "Document")
			version := "unknown"
			if !doc.Version().IsZero() {
				version = doc.Version().String()
			}
			writeField(w, "Version", version)
			writeField(w, "Objects", strconv.Itoa(len(doc.ObjectIDs())))
			writeField(w, "Sections", strconv.Itoa(len(doc.XRef().Sections)))

			info, err := doc.Info()
			if err != nil {
				return err
			}
			if info == nil {
				return nil
			}

			writeTitle(w, "Info")
			keys := info.Keys()
			sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
			for _, key := range keys {
				value, err := doc.Resolve(info.Get(key))
				if err != nil {
					return fmt.Errorf("info /%s: %w", key, err)
				}
				text, ok := core.TextOf(value)
				if !ok {
					text = value.String()
				}
				writeField(w, string(key), text)
			}
			return nil
		},
	}
}

func newPagesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pages <file>",
		Short: "List the pages with their ids and media boxes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := opts.open(args[0])
			if err != nil {
				return err
			}

			pages, err := pdfxref.Pages(doc)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			writeTitle(w, fmt.Sprintf("Pages (%d)", len(pages)))
			for i, page := range pages {
				box := dimStyle.Render("no MediaBox")
				if mb, err := page.MediaBox(); err == nil {
					box = formatBox(mb)
				}
				writeField(w, strconv.Itoa(i+1), fmt.Sprintf("%s R  %s", page.Ref, box))
			}
			return nil
		},
	}
}
