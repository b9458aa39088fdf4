package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"time"

	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/integrations/r2"

	"github.com/klauspost/compress/gzip"
)

const backupPrefix = "backup-"

// Number of most recent backups kept in the bucket
const keepBackups = 30

type Service struct {
	config *config.Config
	r2s    r2.Service
}

// New creates a backup service
func New(config *config.Config, r2s r2.Service) *Service {
	return &Service{
		config: config,
		r2s:    r2s,
	}
}

// Run dumps the database to file, compresses it,
// uploads it to the bucket and prunes the old backups
func (s *Service) Run(ctx context.Context) error {

	dbDump := fmt.Sprintf("%s%v", backupPrefix, time.Now().Format("2006-01-02T15-04"))
	dumpPath := filepath.Join(s.config.DataVolume, dbDump)
	if err := s.DumpDatabase(dumpPath); err != nil {
		return err
	}
	defer removeFile(dumpPath)

	cDump := fmt.Sprintf("%s.gz", dbDump)
	cDumpPath := filepath.Join(s.config.DataVolume, cDump)
	if err := s.CompressFile(dumpPath, cDumpPath); err != nil {
		return err
	}
	defer removeFile(cDumpPath)

	bucket := s.config.R2BackupBucketName
	if err := s.r2s.UploadFile(ctx, bucket, s.config.DataVolume, cDump, cDump); err != nil {
		return err
	}

	return s.PruneBackups(ctx, bucket)
}

// DumpDatabase dumps a database to file
func (s *Service) DumpDatabase(dest string) error {

	// Database URL
	dbUrl := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		s.config.DBUsername,
		s.config.DBPassword,
		s.config.DBHost,
		s.config.DBPort,
		s.config.DBDatabase,
	)

	cmd := exec.Command("pg_dump", dbUrl, "-f", dest)

	// Capture both stdout and stderr
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("pg_dump failed: %v\nstderr: %s\nstdout: %s",
			err, stderr.String(), stdout.String())
	}

	return nil
}

// CompressFile compresses a file
func (s *Service) CompressFile(src, dest string) error {

	// Open the original file for reading
	file, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open the file: %w", err)
	}
	defer file.Close()

	// Create the destination gzip file
	gzipFile, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create gzip file: %w", err)
	}
	defer gzipFile.Close()

	// Create a gzip writer that writes to the destination file
	gzipWriter, err := gzip.NewWriterLevel(gzipFile, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}
	defer gzipWriter.Close()

	// Copy the content from the source file to the gzip writer
	_, err = io.Copy(gzipWriter, file)
	if err != nil {
		return fmt.Errorf("failed to copy data to gzip writer: %w", err)
	}

	return nil
}

// PruneBackups deletes all but the most recent backups from the bucket.
// The timestamped keys sort chronologically.
func (s *Service) PruneBackups(ctx context.Context, bucket string) error {

	keys, err := s.r2s.ListObjects(ctx, bucket, backupPrefix)
	if err != nil {
		return err
	}

	if len(keys) <= keepBackups {
		return nil
	}

	slices.Sort(keys)
	for _, key := range keys[:len(keys)-keepBackups] {
		if err := s.r2s.DeleteObject(ctx, bucket, key); err != nil {
			return fmt.Errorf("couldn't prune the backup %s: %w", key, err)
		}
		log.Printf("Pruned old backup %s", key)
	}

	return nil
}

// removeFile removes a temporary file, logging on failure
func removeFile(path string) {
	if err := os.Remove(path); err != nil {
		log.Printf("Could not remove the temporary file %s: %v", path, err)
	}
}
