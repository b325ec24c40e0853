package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lysyi3m/hatena-atom/app/api"
	"github.com/lysyi3m/hatena-atom/app/archive"
	"github.com/lysyi3m/hatena-atom/app/blog"
	"github.com/lysyi3m/hatena-atom/app/cfg"
	"github.com/lysyi3m/hatena-atom/app/client"
	"github.com/lysyi3m/hatena-atom/app/content"
	"github.com/lysyi3m/hatena-atom/app/tasks"
)

func registerCommands(parser *flags.Parser) {
	must := func(_ *flags.Command, err error) {
		if err != nil {
			panic(err)
		}
	}

	must(parser.AddCommand("post", "Publish a new entry", "Create a new blog entry from flags, a file, or stdin.", &PostCommand{}))
	must(parser.AddCommand("get", "Show an entry", "Fetch a single entry and print it.", &GetCommand{}))
	must(parser.AddCommand("update", "Update an entry", "Replace an existing entry's content.", &UpdateCommand{}))
	must(parser.AddCommand("delete", "Delete an entry", "Delete an entry from the blog.", &DeleteCommand{}))
	must(parser.AddCommand("list", "List entries", "List entries, newest first.", &ListCommand{}))
	must(parser.AddCommand("categories", "List categories", "List the blog's categories.", &CategoriesCommand{}))
	must(parser.AddCommand("sync", "Sync the local archive", "Mirror every remote entry into the local archive database.", &SyncCommand{}))
	must(parser.AddCommand("serve", "Run the archive server", "Serve the local archive over HTTP and keep it synced in the background.", &ServeCommand{}))
	must(parser.AddCommand("version", "Show version", "Print the build version.", &VersionCommand{}))
}

func newAPIClient() (*client.Client, error) {
	appCfg := cfg.Get()
	if err := appCfg.RequireCredentials(); err != nil {
		return nil, err
	}

	return client.New(client.Config{
		HatenaID:  appCfg.HatenaID,
		BlogID:    appCfg.BlogID,
		APIKey:    appCfg.APIKey,
		BaseURL:   appCfg.BaseURL,
		UserAgent: appCfg.UserAgent,
	}), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printEntry(entry *blog.Entry, withContent bool) {
	fmt.Printf("ID:         %s\n", entry.ID)
	fmt.Printf("Title:      %s\n", entry.Title)
	fmt.Printf("Author:     %s\n", entry.AuthorName)
	fmt.Printf("Draft:      %t\n", entry.Draft)
	fmt.Printf("Published:  %s\n", entry.Published.Format(time.RFC3339))
	fmt.Printf("Updated:    %s\n", entry.Updated.Format(time.RFC3339))
	fmt.Printf("Edited:     %s\n", entry.Edited.Format(time.RFC3339))
	fmt.Printf("URL:        %s\n", entry.URL)
	if len(entry.Categories) > 0 {
		fmt.Printf("Categories: %v\n", entry.Categories)
	}
	if withContent {
		fmt.Printf("\n%s\n", entry.Content)
	}
}

// entryFlags are the authoring flags shared by post and update.
type entryFlags struct {
	Title      string   `long:"title" required:"true" description:"Entry title"`
	Content    string   `long:"content" description:"Entry body (reads stdin when omitted and --file is not set)"`
	File       string   `long:"file" description:"Read the entry body from a file"`
	Categories []string `long:"category" description:"Entry category (repeatable)"`
	Draft      bool     `long:"draft" description:"Save as draft instead of publishing"`
	Author     string   `long:"author" description:"Author name (defaults to the Hatena ID)"`
	Updated    string   `long:"updated" description:"Updated timestamp, e.g. 2013-09-02T11:28:23"`
}

func (f *entryFlags) toParams() (blog.EntryParams, error) {
	body := f.Content
	if f.File != "" {
		data, err := os.ReadFile(f.File)
		if err != nil {
			return blog.EntryParams{}, fmt.Errorf("failed to read content file: %w", err)
		}
		body = string(data)
	} else if body == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return blog.EntryParams{}, fmt.Errorf("failed to read content from stdin: %w", err)
		}
		body = string(data)
	}

	author := f.Author
	if author == "" {
		author = cfg.Get().HatenaID
	}

	updated := f.Updated
	if updated == "" {
		updated = time.Now().Format("2006-01-02T15:04:05")
	}

	return blog.EntryParams{
		AuthorName: author,
		Title:      f.Title,
		Content:    body,
		Updated:    updated,
		Categories: f.Categories,
		Draft:      f.Draft,
	}, nil
}

type PostCommand struct {
	entryFlags
}

func (cmd *PostCommand) Execute(args []string) error {
	c, err := newAPIClient()
	if err != nil {
		return err
	}

	params, err := cmd.toParams()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	response, err := c.CreateEntry(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}

	entry, err := response.Entry()
	if err != nil {
		return fmt.Errorf("entry was created but the response could not be parsed: %w", err)
	}

	printEntry(entry, false)
	return nil
}

type GetCommand struct {
	Args struct {
		EntryID string `positional-arg-name:"ENTRY-ID" required:"true"`
	} `positional-args:"true"`
}

func (cmd *GetCommand) Execute(args []string) error {
	c, err := newAPIClient()
	if err != nil {
		return err
	}

	id, err := blog.ParseEntryID(cmd.Args.EntryID)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	response, err := c.GetEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	entry, err := response.Entry()
	if err != nil {
		return fmt.Errorf("failed to parse entry: %w", err)
	}

	printEntry(entry, true)
	return nil
}

type UpdateCommand struct {
	entryFlags
	Args struct {
		EntryID string `positional-arg-name:"ENTRY-ID" required:"true"`
	} `positional-args:"true"`
}

func (cmd *UpdateCommand) Execute(args []string) error {
	c, err := newAPIClient()
	if err != nil {
		return err
	}

	id, err := blog.ParseEntryID(cmd.Args.EntryID)
	if err != nil {
		return err
	}

	params, err := cmd.toParams()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	response, err := c.UpdateEntry(ctx, id, params)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	entry, err := response.Entry()
	if err != nil {
		return fmt.Errorf("entry was updated but the response could not be parsed: %w", err)
	}

	printEntry(entry, false)
	return nil
}

type DeleteCommand struct {
	Args struct {
		EntryID string `positional-arg-name:"ENTRY-ID" required:"true"`
	} `positional-args:"true"`
}

func (cmd *DeleteCommand) Execute(args []string) error {
	c, err := newAPIClient()
	if err != nil {
		return err
	}

	id, err := blog.ParseEntryID(cmd.Args.EntryID)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if _, err := c.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	fmt.Printf("Deleted entry %s\n", id)
	return nil
}

type ListCommand struct {
	Page string `long:"page" description:"Page cursor from a previous listing"`
	All  bool   `long:"all" description:"Walk every page instead of only one"`
}

func (cmd *ListCommand) Execute(args []string) error {
	c, err := newAPIClient()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	page := cmd.Page
	for {
		response, err := c.ListEntriesInPage(ctx, page)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		nextPage, entries, err := response.EntryList()
		if err != nil {
			return fmt.Errorf("failed to parse entry list: %w", err)
		}

		for _, entry := range entries {
			marker := " "
			if entry.Draft {
				marker = "d"
			}
			fmt.Printf("%s %s  %s  %s\n", marker, entry.ID, entry.Published.Format("2006-01-02"), entry.Title)
		}

		if nextPage == "" {
			return nil
		}
		if !cmd.All {
			fmt.Printf("\nNext page: --page %s\n", nextPage)
			return nil
		}
		page = nextPage
	}
}

type CategoriesCommand struct {
	Sort bool `long:"sort" description:"Sort categories with Japanese collation instead of document order"`
}

func (cmd *CategoriesCommand) Execute(args []string) error {
	c, err := newAPIClient()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	response, err := c.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	categories, err := response.Categories()
	if err != nil {
		return fmt.Errorf("failed to parse categories: %w", err)
	}

	if cmd.Sort {
		collate.New(language.Japanese).SortStrings(categories)
	}

	for _, category := range categories {
		fmt.Println(category)
	}
	return nil
}

type SyncCommand struct {
	SkipExtract bool `long:"skip-extract" description:"Skip readable-content extraction after syncing"`
}

func (cmd *SyncCommand) Execute(args []string) error {
	appCfg := cfg.Get()

	c, err := newAPIClient()
	if err != nil {
		return err
	}

	db, err := archive.NewConnection(appCfg.ArchivePath)
	if err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := archive.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Debug("Archive schema ready", "version", version, "dirty", dirty)

	repo := archive.NewEntryRepository(db)

	ctx, cancel := signalContext()
	defer cancel()

	syncTask := tasks.NewSyncEntriesTask(c, repo, appCfg.WorkerCount)
	syncTask.Start()
	if err := syncTask.Execute(ctx); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if cmd.SkipExtract {
		return nil
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	extractTask := tasks.NewExtractContentTask(httpClient, content.NewExtractor(), repo, appCfg.UserAgent)
	extractTask.Start()
	if err := extractTask.Execute(ctx); err != nil {
		return fmt.Errorf("content extraction failed: %w", err)
	}

	return nil
}

type ServeCommand struct {
	SyncInterval int `long:"sync-interval" env:"SYNC_INTERVAL" default:"900" description:"Background sync interval in seconds"`
}

func (cmd *ServeCommand) Execute(args []string) error {
	appCfg := cfg.Get()

	c, err := newAPIClient()
	if err != nil {
		return err
	}

	db, err := archive.NewConnection(appCfg.ArchivePath)
	if err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := archive.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Info("Archive schema ready", "version", version, "dirty", dirty)

	repo := archive.NewEntryRepository(db)
	httpClient := &http.Client{Timeout: 30 * time.Second}
	extractor := content.NewExtractor()

	scheduler := tasks.NewScheduler(c, repo, httpClient, extractor,
		time.Duration(cmd.SyncInterval)*time.Second)
	scheduler.Start()
	defer scheduler.Stop()

	newSyncTask := func() tasks.TaskInterface {
		return tasks.NewSyncEntriesTask(c, repo, 1)
	}
	handler := api.NewHandler(repo, scheduler, newSyncTask, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	ctx, cancel := signalContext()
	defer cancel()

	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return nil
}

type VersionCommand struct{}

func (cmd *VersionCommand) Execute(args []string) error {
	fmt.Println(cfg.GetVersion())
	return nil
}
