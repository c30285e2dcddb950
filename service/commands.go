package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"folio/app/config"
	"folio/app/frontmatter"
	"folio/app/repositories"
	"folio/app/services"
)

// HandleCommand runs one CLI command and returns an exit code.
func HandleCommand(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) < 1 {
		printCommandHelp()
		osExit(1)
		return 1
	}

	switch args[0] {
	case "serve":
		if err := RunAppServer(ctx, cfg); err != nil {
			fmt.Printf("Server error: %v\n", err)
			return 1
		}
		return 0
	case "posts":
		return handlePosts(cfg, args[1:])
	case "media":
		return handleMedia(cfg, args[1:])
	case "help":
		printCommandHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printCommandHelp()
		osExit(1)
		return 1
	}
}

func printCommandHelp() {
	helpText := `Commands:
  serve                           Run the blog API server
  posts list [query]              List posts, newest first, optionally filtered
  posts show <slug>               Print a post file
  posts delete <slug>             Delete a post
  media list                      List uploaded images
  media delete <name>             Delete an uploaded image
  media backup [file]             Back up the media index
  media restore <file>            Restore the media index from a backup
`
	fmt.Println(helpText)
}

func usage(message string) int {
	fmt.Println("Error: " + message)
	osExit(1)
	return 1
}

func handlePosts(cfg *config.Config, args []string) int {
	if len(args) < 1 {
		return usage("posts requires a subcommand (list, show, delete)")
	}

	repo, err := repositories.NewFilePostRepository(cfg.Content.Dir)
	if err != nil {
		fmt.Printf("Failed to open content directory: %v\n", err)
		return 1
	}
	svc := services.NewPostService(repo)

	switch args[0] {
	case "list":
		query := ""
		if len(args) > 1 {
			query = args[1]
		}
		return listPosts(svc, query)
	case "show":
		if len(args) < 2 {
			return usage("slug required for posts show")
		}
		return showPost(svc, args[1])
	case "delete":
		if len(args) < 2 {
			return usage("slug required for posts delete")
		}
		return deletePost(svc, args[1])
	default:
		return usage("unknown posts subcommand: " + args[0])
	}
}

func listPosts(svc *services.PostService, query string) int {
	posts, err := svc.ListPosts(query)
	if err != nil {
		fmt.Printf("Failed to list posts: %v\n", err)
		return 1
	}
	if len(posts) == 0 {
		fmt.Println("No posts found")
		return 0
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSLUG\tSTATUS\tTITLE")
	for _, p := range posts {
		status := p.Status
		if status == "" {
			status = "draft"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Date, p.Slug, status, p.Title)
	}
	tw.Flush()
	return 0
}

func showPost(svc *services.PostService, slug string) int {
	post, err := svc.GetPost(slug)
	if errors.Is(err, repositories.ErrNotFound) {
		fmt.Printf("Post not found: %s\n", slug)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to read post: %v\n", err)
		return 1
	}

	data, err := frontmatter.Encode(post)
	if err != nil {
		fmt.Printf("Failed to encode post: %v\n", err)
		return 1
	}
	fmt.Print(string(data))
	return 0
}

func deletePost(svc *services.PostService, slug string) int {
	if _, err := svc.GetPost(slug); errors.Is(err, repositories.ErrNotFound) {
		fmt.Printf("Post not found: %s\n", slug)
		return 1
	}

	if !confirm(fmt.Sprintf("Delete post %q? This cannot be undone.", slug)) {
		fmt.Println("Operation cancelled")
		return 1
	}
	if err := svc.DeletePost(slug); err != nil {
		fmt.Printf("Failed to delete post: %v\n", err)
		return 1
	}
	fmt.Println("Post deleted successfully")
	return 0
}

func handleMedia(cfg *config.Config, args []string) int {
	if len(args) < 1 {
		return usage("media requires a subcommand (list, delete, backup, restore)")
	}

	switch args[0] {
	case "list":
		return listMedia(cfg)
	case "delete":
		if len(args) < 2 {
			return usage("file name required for media delete")
		}
		return deleteMedia(cfg, args[1])
	case "backup":
		file := ""
		if len(args) > 1 {
			file = args[1]
		}
		return backup(cfg, file)
	case "restore":
		if len(args) < 2 {
			return usage("backup file path required for restore")
		}
		return restore(cfg, args[1])
	default:
		return usage("unknown media subcommand: " + args[0])
	}
}

func mediaService(cfg *config.Config) (*services.MediaService, func(), error) {
	db, err := openMediaIndex(cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := services.NewMediaService(repositories.NewBadgerMediaRepository(db), services.MediaOptions{
		Dir:       cfg.Uploads.Dir,
		URLPrefix: cfg.Uploads.URLPrefix,
		MaxBytes:  cfg.Uploads.MaxBytes,
	})
	return svc, func() { db.Close() }, nil
}

func listMedia(cfg *config.Config) int {
	svc, closeIndex, err := mediaService(cfg)
	if err != nil {
		fmt.Printf("Failed to open media index: %v\n", err)
		return 1
	}
	defer closeIndex()

	items, err := svc.List()
	if err != nil {
		fmt.Printf("Failed to list media: %v\n", err)
		return 1
	}
	if len(items) == 0 {
		fmt.Println("No media found")
		return 0
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UPLOADED\tURL\tSIZE\tORIGINAL")
	for _, m := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", m.UploadedAt.Format(time.RFC3339), m.URL, m.Size, m.OriginalName)
	}
	tw.Flush()
	return 0
}

func deleteMedia(cfg *config.Config, name string) int {
	svc, closeIndex, err := mediaService(cfg)
	if err != nil {
		fmt.Printf("Failed to open media index: %v\n", err)
		return 1
	}
	defer closeIndex()

	err = svc.Delete(name)
	if errors.Is(err, repositories.ErrNotFound) {
		fmt.Printf("Media not found: %s\n", name)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to delete media: %v\n", err)
		return 1
	}
	fmt.Println("Media deleted successfully")
	return 0
}

// backup writes a full Badger backup of the media index.
func backup(cfg *config.Config, file string) int {
	if !indexExists(cfg) {
		fmt.Println("No media index exists to backup")
		return 1
	}

	if file == "" {
		file = filepath.Join(backupDir, fmt.Sprintf("media_%d.bak", time.Now().Unix()))
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return 1
	}

	db, err := openMediaIndex(cfg)
	if err != nil {
		fmt.Printf("Failed to open media index: %v\n", err)
		return 1
	}
	defer db.Close()

	f, err := os.Create(file)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		fmt.Printf("Failed to backup media index: %v\n", err)
		return 1
	}

	fmt.Printf("Media index backed up successfully to %s\n", file)
	return 0
}

// restore replaces the media index with the contents of a backup.
func restore(cfg *config.Config, backupFile string) int {
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if indexExists(cfg) && !confirm("Existing media index found. Do you want to replace it?") {
		fmt.Println("Operation cancelled")
		return 1
	}

	// Load into a sibling directory first; the live index is only replaced
	// once the backup has loaded cleanly.
	staging := filepath.Clean(cfg.Media.IndexDir) + ".restore"
	if err := os.RemoveAll(staging); err != nil {
		fmt.Printf("Failed to clear staging directory: %v\n", err)
		return 1
	}
	if err := loadBackup(staging, f); err != nil {
		os.RemoveAll(staging)
		fmt.Printf("Failed to restore media index: %v\n", err)
		return 1
	}

	if err := os.RemoveAll(cfg.Media.IndexDir); err != nil {
		os.RemoveAll(staging)
		fmt.Printf("Failed to remove existing media index: %v\n", err)
		return 1
	}
	if err := os.Rename(staging, cfg.Media.IndexDir); err != nil {
		fmt.Printf("Failed to move restored media index into place: %v\n", err)
		return 1
	}

	fmt.Println("Media index restored successfully")
	return 0
}

func loadBackup(dir string, src io.Reader) (err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	db, err := repositories.OpenBadger(dir)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); err == nil {
			err = closeErr
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred during restore: %v", r)
		}
	}()
	return db.Load(src, 4)
}
