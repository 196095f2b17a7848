package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/facio/facio/internal/artifact"
	"github.com/facio/facio/internal/pdf"
	"github.com/facio/facio/internal/preview"
	"github.com/facio/facio/internal/services"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
)

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "render an invoice JSON file to PDF",
		ArgsUsage: "<invoice.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default: invoice folder or current directory)"},
			&cli.BoolFlag{Name: "preview", Usage: "render as is, without validation or bookkeeping"},
		},
		Action: func(c *cli.Context) error {
			path, err := firstArg(c, "invoice")
			if err != nil {
				return err
			}
			inv, err := readInvoice(path)
			if err != nil {
				return err
			}
			e, err := openEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			exporter := services.NewInvoiceExporter(pdf.NewRenderer(), e.settings, e.clients, e.history)
			if c.Bool("preview") {
				data, err := exporter.Preview(c.Context, inv, lang(c))
				if err != nil {
					return err
				}
				out := c.String("out")
				if out == "" {
					out = "preview.pdf"
				}
				if err := writeFile(out, data); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "preview written to %s\n", out)
				return nil
			}

			res, err := exporter.Export(c.Context, inv, lang(c))
			if res == nil {
				return err
			}
			if err != nil {
				fmt.Fprintf(c.App.ErrWriter, "warning: invoice not recorded: %v\n", err)
			}
			if out := c.String("out"); out != "" {
				if err := writeFile(out, res.PDF); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "%s\n", out)
				return nil
			}
			dir := e.settings.Load(c.Context).InvoiceSaveDir
			if dir == "" {
				dir = e.cfg.Output.InvoiceDir
			}
			if dir == "" {
				dir = "."
			}
			loc, err := artifact.NewDirSink(dir).Save(c.Context, res.Filename, res.PDF)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s\n", loc)
			return nil
		},
	}
}

func totalsCommand() *cli.Command {
	return &cli.Command{
		Name:      "totals",
		Usage:     "print subtotal, tax, total and rebate of an invoice JSON file",
		ArgsUsage: "<invoice.json>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print raw numbers as JSON"},
		},
		Action: func(c *cli.Context) error {
			path, err := firstArg(c, "invoice")
			if err != nil {
				return err
			}
			inv, err := readInvoice(path)
			if err != nil {
				return err
			}
			e, err := openEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			biz := e.settings.Load(c.Context)
			if c.Bool("json") {
				totals := services.NewInvoiceService(biz.Rebate()).ComputeTotals(inv)
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(totals)
			}
			doc := pdf.BuildInvoiceDocument(inv, biz, lang(c), nil)
			for _, row := range doc.Footer {
				fmt.Fprintf(c.App.Writer, "%-22s %s\n", row.Label, row.Value)
			}
			return nil
		},
	}
}

func stampCommand() *cli.Command {
	return &cli.Command{
		Name:      "stamp",
		Usage:     "overlay a PAID stamp on every page of a PDF",
		ArgsUsage: "<invoice.pdf>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default: <name>_stamped_<millis>.pdf next to the input)"},
		}, stampFlags...),
		Action: func(c *cli.Context) error {
			path, err := firstArg(c, "pdf")
			if err != nil {
				return err
			}
			stamp, err := parseStamp(c)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			out, err := pdf.StampPDF(src, stamp, lang(c))
			if err != nil {
				return err
			}
			dst := c.String("out")
			if dst == "" {
				dst = filepath.Join(filepath.Dir(path), services.StampedFilename(path, time.Now()))
			}
			if err := writeFile(dst, out); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s\n", dst)
			return nil
		},
	}
}

func stampDirCommand() *cli.Command {
	return &cli.Command{
		Name:      "stamp-dir",
		Usage:     "stamp every PDF of a folder; earlier stamp outputs are skipped",
		ArgsUsage: "<folder>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output folder (default: the input folder)"},
		}, stampFlags...),
		Action: func(c *cli.Context) error {
			dir, err := firstArg(c, "folder")
			if err != nil {
				return err
			}
			stamp, err := parseStamp(c)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			outDir := c.String("out")
			if outDir == "" {
				outDir = dir
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			batch := services.NewStampBatch(pdf.NewStamper(), artifact.NewDirSink(outDir))
			report, err := batch.Run(ctx, dir, stamp, lang(c), func(done, total int) {
				fmt.Fprintf(c.App.ErrWriter, "\r%d/%d", done, total)
			})
			if report.Total > 0 {
				fmt.Fprintln(c.App.ErrWriter)
			}
			for _, f := range report.Stamped {
				fmt.Fprintf(c.App.Writer, "%s -> %s\n", filepath.Base(f.Source), f.Output)
			}
			fmt.Fprintf(c.App.Writer, "stamped %d of %d, %d failed\n", len(report.Stamped), report.Total, report.Failed)
			if report.Cancelled {
				return cli.Exit("cancelled", 130)
			}
			return err
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "re-render a preview PDF whenever an invoice JSON file changes",
		ArgsUsage: "<invoice.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "preview.pdf", Usage: "preview file"},
			&cli.DurationFlag{Name: "poll", Value: 250 * time.Millisecond, Usage: "how often the file is checked"},
		},
		Action: func(c *cli.Context) error {
			path, err := firstArg(c, "invoice")
			if err != nil {
				return err
			}
			e, err := openEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			exporter := services.NewInvoiceExporter(pdf.NewRenderer(), e.settings, e.clients, e.history)
			out := c.String("out")
			delay := time.Duration(e.cfg.App.PreviewDelayMs) * time.Millisecond
			return watchInvoice(ctx, path, c.Duration("poll"), delay, func(ctx context.Context) ([]byte, error) {
				inv, err := readInvoice(path)
				if err != nil {
					return nil, err
				}
				return exporter.Preview(ctx, inv, lang(c))
			}, func(r preview.Result) {
				if r.Err != nil {
					fmt.Fprintf(c.App.ErrWriter, "preview #%d failed: %v\n", r.Seq, r.Err)
					return
				}
				if err := writeFile(out, r.Data); err != nil {
					fmt.Fprintf(c.App.ErrWriter, "write %s: %v\n", out, err)
					return
				}
				fmt.Fprintf(c.App.Writer, "preview #%d written to %s\n", r.Seq, out)
			})
		},
	}
}

// watchInvoice polls path and schedules a debounced render on every
// modification, plus one at start. It returns when ctx is done.
func watchInvoice(ctx context.Context, path string, poll, delay time.Duration, render preview.Func, deliver func(preview.Result)) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	d := preview.New(delay, deliver)
	defer d.Stop()
	d.Schedule(render)

	last := fi.ModTime()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fi, err := os.Stat(path)
			if err != nil {
				continue
			}
			if !fi.ModTime().Equal(last) {
				last = fi.ModTime()
				d.Schedule(render)
			}
		}
	}
}

func clientsCommand() *cli.Command {
	return &cli.Command{
		Name:  "clients",
		Usage: "manage the saved client register",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list saved clients, most recently used first",
				Action: func(c *cli.Context) error {
					e, err := openEnv(c)
					if err != nil {
						return err
					}
					defer e.Close()
					for _, cl := range e.clients.List(c.Context) {
						fmt.Fprintf(c.App.Writer, "%-16s %-28s %s\n", cl.PersonalID, cl.Name, cl.Email)
					}
					return nil
				},
			},
			{
				Name:  "export",
				Usage: "write the client register as an export document",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default: stdout)"},
				},
				Action: func(c *cli.Context) error {
					e, err := openEnv(c)
					if err != nil {
						return err
					}
					defer e.Close()
					data, err := json.MarshalIndent(e.transfer.Export(c.Context), "", "  ")
					if err != nil {
						return err
					}
					if out := c.String("out"); out != "" {
						return writeFile(out, data)
					}
					_, err = fmt.Fprintf(c.App.Writer, "%s\n", data)
					return err
				},
			},
			{
				Name:      "import",
				Usage:     "merge an export document into the register",
				ArgsUsage: "<export.json>",
				Action: func(c *cli.Context) error {
					path, err := firstArg(c, "export")
					if err != nil {
						return err
					}
					data, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					e, err := openEnv(c)
					if err != nil {
						return err
					}
					defer e.Close()
					report, err := e.transfer.Import(c.Context, data)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "imported %d, updated %d, rejected %d\n", report.Imported, report.Updated, len(report.Rejected))
					for _, r := range report.Rejected {
						fmt.Fprintf(c.App.ErrWriter, "  entry %d: %s %s\n", r.Index, r.Field, r.Reason)
					}
					return nil
				},
			},
		},
	}
}

func nextNumberCommand() *cli.Command {
	return &cli.Command{
		Name:  "next-number",
		Usage: "print the next sequential invoice number of the invoice folder",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "invoice folder (default: from settings)"},
		},
		Action: func(c *cli.Context) error {
			dir := c.String("dir")
			if dir == "" {
				e, err := openEnv(c)
				if err != nil {
					return err
				}
				defer e.Close()
				dir = e.settings.Load(c.Context).InvoiceSaveDir
				if dir == "" {
					dir = e.cfg.Output.InvoiceDir
				}
			}
			next := services.FirstInvoiceNumber
			if dir != "" {
				n, err := services.NextInvoiceNumber(dir)
				switch {
				case err == nil:
					next = n
				case !errors.Is(err, os.ErrNotExist):
					return err
				}
			}
			fmt.Fprintln(c.App.Writer, strconv.Itoa(next))
			return nil
		},
	}
}
