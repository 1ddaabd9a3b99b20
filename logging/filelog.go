package logging

import (
	"encoding/json"
	"path/filepath"

	"regexsolver/solve"

	"github.com/rs/zerolog"
)

// FileResultsLogger is a results logger that appends one JSON line per solved request to a file.
type FileResultsLogger interface {
	solve.ResultsLogger
	Close()
}

type filelogResultsLogger struct {
	file         LogFile
	logger       zerolog.Logger
	writelogline chan []byte
	writeDone    chan bool
	closed       chan bool
}

// NewFileResultsLogger creates a results logger that writes log lines to the file at path, creating its directory if needed.
func NewFileResultsLogger(fileSystem LogFileSystem, logger zerolog.Logger, path string) (FileResultsLogger, error) {
	r := &filelogResultsLogger{logger: logger}

	dir := filepath.Dir(path)
	err := fileSystem.MkDir(dir)
	if err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create the directory while initializing")
		return nil, err
	}

	r.file, err = fileSystem.Open(path)
	if err != nil {
		logger.Error().Err(err).Str("file", path).Msg("Failed to open the file at initiation")
		return nil, err
	}

	// A single goroutine owns the file, so concurrent requests never interleave their lines.
	r.writelogline = make(chan []byte)
	r.writeDone = make(chan bool)
	r.closed = make(chan bool)
	go func() {
		for v := range r.writelogline {
			if err := r.file.Append(append(v, '\n')); err != nil {
				r.logger.Error().Err(err).Str("file", path).Msg("Failed to append to results log")
			}
			r.writeDone <- true
		}

		if err := r.file.Close(); err != nil {
			r.logger.Error().Err(err).Str("file", path).Msg("Failed to close results log")
		}
		close(r.closed)
	}()

	return r, nil
}

func (l *filelogResultsLogger) Solved(req solve.Request, resp solve.Response) {
	bb, err := json.Marshal(newSolveLogEntry(req, resp))
	if err != nil {
		l.logger.Error().Err(err).Msg("Error while marshaling JSON results log")
		return
	}

	l.writelogline <- bb
	<-l.writeDone
}

// Close stops the writer and closes the file. Solved must not be called after Close.
func (l *filelogResultsLogger) Close() {
	close(l.writelogline)
	<-l.closed
}
