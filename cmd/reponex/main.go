package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"reponex/internal"
	"reponex/internal/catalog"
	"reponex/internal/config"
	"reponex/internal/connectors"
	gmailconnector "reponex/internal/connectors/gmail"
	imapconnector "reponex/internal/connectors/imap"
	"reponex/internal/listener"
	"reponex/internal/pipeline"
	"reponex/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "catalog:load":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		files := fs.String("files", "", "comma-separated price list files (csv, xls/xlsx, html)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*files) == "" {
			must(fmt.Errorf("--files is required"))
		}
		total := 0
		for _, path := range strings.Split(*files, ",") {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			file, err := pipeline.LoadCatalogFile(path)
			must(err)
			entries := pipeline.EntriesFromFile(file)
			_, err = db.ReplaceCatalogFile(file.Name, file.Supplier(), "file:"+path, entries)
			must(err)
			fmt.Printf("loaded %s supplier=%s entries=%d\n", file.Name, file.Supplier(), len(entries))
			total += len(entries)
		}
		fmt.Printf("catalog load complete: %d entries\n", total)
	case "catalog:clear":
		must(db.ClearCatalog())
		fmt.Println("catalog cleared")
	case "restock":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		sales := fs.String("sales", "", "sales/stock report (csv, xls/xlsx, pdf)")
		threshold := fs.Float64("threshold", cfg.RestockThreshold, "stock threshold")
		out := fs.String("out", "", "output xlsx path (optional)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*sales) == "" {
			must(fmt.Errorf("--sales is required"))
		}

		salesRecords, err := pipeline.LoadSalesFile(*sales)
		must(err)
		entries, err := db.ListCatalogEntries()
		must(err)
		idx := catalog.NewIndex(entries)

		start := time.Now()
		list, err := pipeline.BuildRestockList(context.Background(), salesRecords, idx, cfg.MatchThreshold, *threshold, printProgress)
		must(err)
		fmt.Println()

		matched := 0
		for _, item := range list {
			if item.Price != nil {
				matched++
			}
		}
		runID, err := db.InsertRestockRun(pipeline.TraceID(), *sales, *threshold,
			map[string]int{"sales": len(salesRecords), "restock": len(list), "matched": matched},
			map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
			list)
		must(err)

		printRestockList(list)
		fmt.Printf("run %d: %d of %d products below threshold %.0f, %d priced\n", runID, len(list), len(salesRecords), *threshold, matched)
		if strings.TrimSpace(*out) != "" {
			must(pipeline.ExportRestockToXLSX(list, *out))
			fmt.Printf("exported %d rows to %s\n", len(list), *out)
		}
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		sales := fs.String("sales", "", "sales/stock report (csv, xls/xlsx, pdf)")
		catalogs := fs.String("catalogs", "", "comma-separated price list files")
		threshold := fs.Float64("threshold", cfg.RestockThreshold, "stock threshold")
		out := fs.String("out", "", "output xlsx path (optional)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*sales) == "" || strings.TrimSpace(*catalogs) == "" {
			must(fmt.Errorf("--sales and --catalogs are required"))
		}

		salesRecords, err := pipeline.LoadSalesFile(*sales)
		must(err)

		files := []internal.SourceFile{}
		for _, path := range strings.Split(*catalogs, ",") {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			file, err := pipeline.LoadCatalogFile(path)
			must(err)
			files = append(files, file)
		}
		idx := pipeline.BuildCatalogIndex(files)

		list, err := pipeline.BuildRestockList(context.Background(), salesRecords, idx, cfg.MatchThreshold, *threshold, printProgress)
		must(err)
		fmt.Println()
		printRestockList(list)
		if strings.TrimSpace(*out) != "" {
			must(pipeline.ExportRestockToXLSX(list, *out))
			fmt.Printf("exported %d rows to %s\n", len(list), *out)
		}
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		runID := fs.Int64("runId", 0, "restock run id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *runID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--runId and --out are required"))
		}
		items, err := db.GetRestockItems(*runID)
		must(err)
		if len(items) == 0 {
			must(fmt.Errorf("no restock items for runId=%d", *runID))
		}
		must(pipeline.ExportRestockToXLSX(items, *out))
		fmt.Printf("exported %d rows to %s\n", len(items), *out)
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.ListenerProvider, "gmail|imap")
		label := fs.String("label", cfg.ListenerLabel, "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		conn, err := makeConnector(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn, cfg.SupplierSenders)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d skipped=%d\n", *provider, result.Fetched, result.Stored, result.Skipped)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.ListenerProvider, "gmail|imap")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewProcessingService(db, cfg)
		if strings.TrimSpace(*messageID) != "" {
			res, err := processor.ProcessByProviderMessageID(*provider, *messageID)
			must(err)
			fmt.Printf("processed email id=%d files=%d entries=%d\n", res.EmailID, res.Files, res.Entries)
			return
		}
		processedEmails, loadedEntries, err := processor.ProcessPending(*batch, *provider)
		must(err)
		fmt.Printf("processed pending emails=%d entries=%d\n", processedEmails, loadedEntries)
	case "mail:listen":
		s := listener.NewService(db, cfg)
		must(s.Run(context.Background()))
	default:
		usage()
		os.Exit(1)
	}
}

func printProgress(percent int) {
	fmt.Printf("\rprocessing... %d%%", percent)
}

func printRestockList(list []internal.RestockRecord) {
	for _, item := range list {
		price := "-"
		if item.Price != nil {
			price = fmt.Sprintf("$%.2f", *item.Price)
		}
		fmt.Printf("%-50s %8.0f %10s  %s\n", strings.ToUpper(item.Product), item.QuantityToReplace, price, item.Supplier)
	}
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: reponex <command>")
	fmt.Println("commands:")
	fmt.Println("  catalog:load --files=drogueriaA.csv,drogueriaB.xlsx")
	fmt.Println("  catalog:clear")
	fmt.Println("  restock --sales=ventas.pdf [--threshold=5] [--out=./out/reposicion.xlsx]")
	fmt.Println("  run --sales=ventas.csv --catalogs=a.csv,b.xlsx [--threshold=5] [--out=...xlsx]")
	fmt.Println("  export:xlsx --runId=1 --out=./out/reposicion.xlsx")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:process --provider=gmail|imap [--messageId=...] [--batch=20]")
	fmt.Println("  mail:listen")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
