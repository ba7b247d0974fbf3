package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/pixeldrain/client/batch"
	"github.com/adamwoolhether/pixeldrain/client/transfer"
	"github.com/adamwoolhether/pixeldrain/filename"
)

func newUploadCmd(a *app) *cobra.Command {
	var failFast bool

	cmd := &cobra.Command{
		Use:   "upload <path>...",
		Short: "Upload one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			q := a.queue(failFast)

			for _, path := range args {
				q.Go(ctx, path, func(ctx context.Context) error {
					return a.upload(ctx, cmd, path, func(id string) {
						a.printf(cmd, "%s\thttps://pixeldrain.com/u/%s\n", path, id)
					})
				})
			}

			return q.Wait()
		},
	}

	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop starting uploads after the first failure")

	return cmd
}

func (a *app) queue(failFast bool) *batch.Queue {
	opts := []batch.Option{batch.WithLogger(a.logger)}
	if failFast {
		opts = append(opts, batch.WithFailFast())
	}

	return batch.NewQueue(a.cfg.Concurrency, opts...)
}

func (a *app) upload(ctx context.Context, cmd *cobra.Command, path string, done func(id string)) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("is a directory")
	}

	name := filename.Normalize(filepath.Base(path))
	opts := append(a.cfg.TransferOptions(),
		transfer.WithProgress(observer(a.progress, cmd.ErrOrStderr(), a.logger, name, info.Size())))

	id, err := a.pd.Files.UploadFile(ctx, path, opts...)
	if err != nil {
		return err
	}
	done(id)

	return nil
}

func newDownloadCmd(a *app) *cobra.Command {
	var (
		output       string
		skipExisting bool
		failFast     bool
	)

	cmd := &cobra.Command{
		Use:   "download <id>...",
		Short: "Download files by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return errors.New("--output can only be used with a single id")
			}

			ctx := cmd.Context()
			q := a.queue(failFast)

			for _, id := range args {
				q.Go(ctx, id, func(ctx context.Context) error {
					return a.download(ctx, cmd, id, output, skipExisting)
				})
			}

			return q.Wait()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path (defaults to the remote file name)")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Skip files that already exist with the same size")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop starting downloads after the first failure")

	return cmd
}

func (a *app) download(ctx context.Context, cmd *cobra.Command, id, output string, skipExisting bool) error {
	info, err := a.pd.Files.Info(ctx, id)
	if err != nil {
		return err
	}

	dest := output
	if dest == "" {
		dest = filename.Normalize(info.Name)
	}

	if skipExisting {
		st, err := os.Stat(dest)
		switch {
		case err == nil && st.Size() == info.Size:
			a.logger.Info("skipping existing file", "id", id, "path", dest)
			return nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}

	opts := append(a.cfg.TransferOptions(),
		transfer.WithProgress(observer(a.progress, cmd.ErrOrStderr(), a.logger, info.Name, info.Size)))

	if _, err := a.pd.Files.DownloadFile(ctx, id, dest, opts...); err != nil {
		return err
	}
	a.printf(cmd, "%s\t%s\n", id, dest)

	return nil
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <id>",
		Short: "Show file metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.pd.Files.Info(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "id\t%s\n", info.ID)
			fmt.Fprintf(w, "name\t%s\n", info.Name)
			fmt.Fprintf(w, "size\t%d\n", info.Size)
			fmt.Fprintf(w, "mime\t%s\n", info.MimeType)
			fmt.Fprintf(w, "views\t%d\n", info.Views)
			fmt.Fprintf(w, "downloads\t%d\n", info.Downloads)
			fmt.Fprintf(w, "uploaded\t%s\n", info.DateUpload)
			fmt.Fprintf(w, "sha256\t%s\n", info.HashSHA256)

			return w.Flush()
		},
	}
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.pd.Files.Rename(cmd.Context(), args[0], args[1])
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, id := range args {
				if err := a.pd.Files.Delete(cmd.Context(), id); err != nil {
					errs = append(errs, fmt.Errorf("rm %s: %w", id, err))
				}
			}

			return errors.Join(errs...)
		},
	}
}

func newListFilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List files owned by the authenticated user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.pd.Files.All(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSIZE\tUPLOADED\tNAME")
			for _, f := range files {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", f.ID, f.Size, f.DateUpload.Format("2006-01-02"), f.Name)
			}

			return w.Flush()
		},
	}
}
