/*
Package cli provides command-line interface utilities for the ionc
command.

The cli package includes output formatters, result renderers, progress
reporters, and common CLI helpers.

Output Formatting:

The cli package supports multiple output formats (text, JSON, CSV) for
displaying command results:

	formatter := cli.NewFormatter(cli.FormatJSON)
	report := cli.NewCompileReport(result)
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

Progress Reporting:

For compiling many files, use the progress reporter:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(files)))
	for i, file := range files {
		// Compile file
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
