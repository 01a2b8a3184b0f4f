// Package logtail reads the end of shelf's own log file for the activity
// view.
//
// Read extracts the last N lines with a ring buffer, so memory use is
// bounded by N rather than by the file size. Parse and Tail decode the JSON
// lines written by internal/logging into entries with a time, level,
// logger name, message and the remaining fields in their original order.
// Lines that are not JSON (for example from an older console-format log)
// are returned with the whole line as the message.
//
// Example usage:
//
//	entries, err := logtail.Tail(cfg.LogFile, 200)
//	if err != nil {
//		return err
//	}
//	for _, e := range entries {
//		fmt.Println(e.Time.Format(time.Kitchen), e.Level, e.Message)
//	}
package logtail
