package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/streamfetch-go/internal/domain"
)

var (
	serverURL   string
	noAutoStart bool
	rootCmd     = &cobra.Command{
		Use:   "streamfetch",
		Short: "StreamFetch CLI - look up video links and keep a library",
		Long: `A command-line interface for StreamFetch: resolve video and playlist
links into metadata, manage the saved library and run simulated downloads.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8090", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&noAutoStart, "no-auto-start", false, "Don't auto-start server if not running")

	libraryCmd.AddCommand(libraryListCmd, libraryRemoveCmd)

	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(logsCmd)
}

// ensureServer checks if server is running and starts it if needed (unless --no-auto-start)
func ensureServer() *apiClient {
	if !noAutoStart {
		if err := ensureServerRunning(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	return newAPIClient(serverURL)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [url]",
	Short: "Resolve a video or playlist link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := ensureServer()
		save, _ := cmd.Flags().GetBool("save")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		result, err := client.Lookup(args[0])
		if err != nil {
			return err
		}

		if save && !result.Saved {
			if _, err := client.Save(result.Record); err != nil {
				return err
			}
			result.Saved = true
		}

		if jsonOutput {
			return printJSON(os.Stdout, result)
		}
		printRecord(os.Stdout, result.Record, result.Saved)
		return nil
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the download formats offered for videos or playlists",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := ensureServer()
		collection, _ := cmd.Flags().GetBool("collection")

		formats, err := client.Formats(collection)
		if err != nil {
			return err
		}
		printFormats(os.Stdout, formats)
		return nil
	},
}

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage saved records",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := ensureServer().Library()
		if err != nil {
			return err
		}
		printLibrary(os.Stdout, records)
		return nil
	},
}

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a saved record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := ensureServer().Remove(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Removed %s (%d saved)\n", args[0], len(records))
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open [id]",
	Short: "Show a saved record without contacting the metadata service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := ensureServer().Open(args[0])
		if err != nil {
			return err
		}
		if state.Current != nil {
			printRecord(os.Stdout, *state.Current, true)
		}
		return nil
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the server's current view state",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := ensureServer().Session()
		if err != nil {
			return err
		}
		printState(os.Stdout, *state)
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download [url]",
	Short: "Look up a link and run a simulated download",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := ensureServer()
		formatID, _ := cmd.Flags().GetString("format")
		noFollow, _ := cmd.Flags().GetBool("no-follow")

		result, err := client.Lookup(args[0])
		if err != nil {
			return err
		}

		task, err := client.StartDownload(result.Record, formatID)
		if err != nil {
			return err
		}
		fmt.Printf("Download started: %s\n", task.Filename)
		fmt.Printf("ID: %s\n", task.ID)

		if noFollow {
			return nil
		}

		var last domain.ProgressEvent
		err = client.FollowProgress(task.ID, func(event domain.ProgressEvent) {
			last = event
			fmt.Printf("\r%s", progressLine(event))
		})
		fmt.Println()
		if err != nil {
			return err
		}

		switch last.Status {
		case domain.StatusCompleted:
			fmt.Printf("Saved to %s\n", last.FilePath)
		case domain.StatusError:
			return fmt.Errorf("download failed: %s", last.Error)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List downloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		tasks, err := ensureServer().Downloads(status)
		if err != nil {
			return err
		}
		printDownloads(os.Stdout, tasks)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get download details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := ensureServer().Download(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Download Details:\n")
		fmt.Printf("  ID:       %s\n", task.ID)
		fmt.Printf("  Title:    %s\n", task.RecordTitle)
		fmt.Printf("  Format:   %s (%s)\n", task.Quality, task.MimeType)
		fmt.Printf("  Status:   %s\n", task.Status)
		fmt.Printf("  Progress: %d%%\n", task.Progress)
		fmt.Printf("  Created:  %s\n", task.CreatedAt.Format("2006-01-02 15:04:05"))
		if task.FilePath != "" {
			fmt.Printf("  File:     %s\n", task.FilePath)
		}
		if task.ErrorMessage != "" {
			fmt.Printf("  Error:    %s\n", task.ErrorMessage)
		}
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs [category]",
	Short: "View server logs (server, lookup, library, download, error)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := ensureServer()
		date, _ := cmd.Flags().GetString("date")
		query, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		result, err := client.Logs(args[0], date, query, limit)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(os.Stdout, result.Entries)
		}
		for _, entry := range result.Entries {
			fmt.Printf("%s  %-5s  %s\n", entry.Timestamp, strings.ToUpper(entry.Level), entry.Message)
		}
		return nil
	},
}

func init() {
	lookupCmd.Flags().BoolP("save", "s", false, "Save the record to the library")
	lookupCmd.Flags().BoolP("json", "j", false, "Output in JSON format")
	formatsCmd.Flags().BoolP("collection", "c", false, "Show playlist formats")
	downloadCmd.Flags().StringP("format", "f", "", "Format ID (see 'formats')")
	_ = downloadCmd.MarkFlagRequired("format")
	downloadCmd.Flags().Bool("no-follow", false, "Return after starting instead of streaming progress")
	listCmd.Flags().StringP("status", "s", "", "Filter by status")
	logsCmd.Flags().StringP("date", "d", "", "Date (YYYY-MM-DD), default today")
	logsCmd.Flags().StringP("search", "q", "", "Only entries matching this text")
	logsCmd.Flags().IntP("limit", "n", 100, "Maximum entries")
	logsCmd.Flags().BoolP("json", "j", false, "Output in JSON format")
}

func printRecord(w io.Writer, record domain.MetadataRecord, saved bool) {
	kind := "Video"
	if record.IsCollection {
		kind = "Playlist"
	}

	fmt.Fprintf(w, "%s\n", record.Title)
	fmt.Fprintf(w, "  Type:      %s\n", kind)
	fmt.Fprintf(w, "  ID:        %s\n", record.ID)
	fmt.Fprintf(w, "  Channel:   %s\n", record.ChannelName)
	if record.IsCollection && record.ItemCount != nil {
		fmt.Fprintf(w, "  Items:     %d\n", *record.ItemCount)
	} else {
		fmt.Fprintf(w, "  Duration:  %s\n", record.DurationOrLabel)
	}
	fmt.Fprintf(w, "  Views:     %s\n", record.ViewCount)
	fmt.Fprintf(w, "  Published: %s\n", record.PublishedAt)
	fmt.Fprintf(w, "  Saved:     %t\n", saved)
	if record.Description != "" {
		fmt.Fprintf(w, "\n%s\n", record.Description)
	}
}

func printFormats(w io.Writer, formats []domain.FormatDescriptor) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tQUALITY\tCONTAINER\tSIZE\tFPS\tAUDIO")
	for _, f := range formats {
		fpsLabel := "-"
		if f.FrameRate != nil {
			fpsLabel = fmt.Sprint(*f.FrameRate)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n",
			f.ID, f.Quality, f.Container, f.ApproximateSize, fpsLabel, f.HasAudioTrack)
	}
	tw.Flush()
}

func printLibrary(w io.Writer, records []domain.MetadataRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "Library is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCHANNEL\tLENGTH")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.ID, truncate(r.Title, 40), truncate(r.ChannelName, 20), r.DurationOrLabel)
	}
	tw.Flush()
}

func printDownloads(w io.Writer, tasks []domain.DownloadTask) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE\tSTATUS\tPROGRESS\tCREATED")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d%%\t%s\n",
			truncate(t.ID, 8),
			truncate(t.Filename, 40),
			t.Status,
			t.Progress,
			t.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func printState(w io.Writer, state domain.UIState) {
	fmt.Fprintf(w, "View:  %s\n", state.View)
	fmt.Fprintf(w, "State: %s\n", state.State)
	if state.Current != nil {
		fmt.Fprintf(w, "Showing: %s (%s)\n", state.Current.Title, state.Current.ID)
	}
	if state.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", state.Error)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// progressLine renders a fixed-width bar for one progress event
func progressLine(event domain.ProgressEvent) string {
	const width = 30
	filled := event.Progress * width / 100
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %3d%% %s",
		strings.Repeat("#", filled), strings.Repeat(".", width-filled), event.Progress, event.Status)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
