//go:build hyperscan

package hyperscan

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strconv"

	hs "github.com/flier/gohs/hyperscan"
)

// DbCache is a cache for pre-built prefilter databases.
type DbCache interface {
	cacheID(p *hs.Pattern) string
	loadFromCache(cacheID string) hs.BlockDatabase
	saveToCache(cacheID string, db hs.BlockDatabase)
}

type dbCacheImpl struct {
	fs CacheFilesystem
}

// NewDbCache creates a DbCache using the given file system interface.
func NewDbCache(fs CacheFilesystem) DbCache {
	return &dbCacheImpl{fs: fs}
}

func (c *dbCacheImpl) cacheID(p *hs.Pattern) string {
	hash := sha1.New()
	io.WriteString(hash, strconv.Itoa(p.Id))
	io.WriteString(hash, p.String())
	io.WriteString(hash, strconv.Itoa(int(p.Flags)))

	return hex.EncodeToString(hash.Sum(nil))
}

func (c *dbCacheImpl) loadFromCache(cacheID string) hs.BlockDatabase {
	dir := c.fs.getCacheFileDirectory()

	if !c.fs.exists(dir) {
		return nil
	}

	bb, err := c.fs.readFile(filepath.Join(dir, cacheID))
	if err != nil || len(bb) == 0 {
		return nil
	}

	db, err := hs.UnmarshalBlockDatabase(bb)
	if err != nil {
		return nil
	}

	return db
}

func (c *dbCacheImpl) saveToCache(cacheID string, db hs.BlockDatabase) {
	dir := c.fs.getCacheFileDirectory()
	if err := c.fs.createDirIfNotExist(dir); err != nil {
		return
	}

	bb, err := db.Marshal()
	if err != nil {
		return
	}

	c.fs.writeFile(filepath.Join(dir, cacheID), bb, 0644)
}

// CacheFilesystem is an interface with the functionality the cache needs to persist to a filesystem.
type CacheFilesystem interface {
	readFile(filename string) ([]byte, error)
	writeFile(filename string, data []byte, perm os.FileMode) error
	createDirIfNotExist(dir string) error
	getCacheFileDirectory() string
	exists(filename string) bool
}

type cacheFilesystemImpl struct {
	dir string
}

// NewCacheFileSystem creates a CacheFilesystem that keeps databases in dir on the real file system.
func NewCacheFileSystem(dir string) CacheFilesystem {
	return &cacheFilesystemImpl{dir: dir}
}

func (c *cacheFilesystemImpl) readFile(filename string) ([]byte, error) {
	return os.ReadFile(filename)
}

func (c *cacheFilesystemImpl) writeFile(filename string, data []byte, perm os.FileMode) error {
	// Written aside and renamed, so concurrent readers never see a partial database.
	f, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".*")
	if err != nil {
		return err
	}

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(f.Name(), perm)
	}
	if err != nil {
		os.Remove(f.Name())
		return err
	}

	return os.Rename(f.Name(), filename)
}

func (c *cacheFilesystemImpl) createDirIfNotExist(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func (c *cacheFilesystemImpl) getCacheFileDirectory() string {
	return c.dir
}

func (c *cacheFilesystemImpl) exists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}
