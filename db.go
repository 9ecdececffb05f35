package gifraw

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bodgit/gifraw/gif"
)

// GifDB is a catalog of scanned GIF files keyed by their SHA1 hash.
type GifDB struct {
	db *sql.DB
}

func NewGifDB(file string) (*GifDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, path TEXT NOT NULL, version TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, colors INTEGER NOT NULL, interlace INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	return &GifDB{
		db: db,
	}, nil
}

// SaveImage records the metadata for the file at path. Rescanning the
// same content updates the existing row.
func (d *GifDB) SaveImage(sha1, path string, info *gif.FileInfo) error {
	_, err := d.db.Exec("INSERT OR REPLACE INTO image (sha1, path, version, width, height, colors, interlace) VALUES (?, ?, ?, ?, ?, ?, ?)",
		sha1, path, info.Version, info.Width, info.Height, info.Colors, info.Interlace)
	return err
}

// FindImageBySHA1 returns the recorded path and metadata for a hash, or
// nil if the hash has not been seen.
func (d *GifDB) FindImageBySHA1(sha1 string) (string, *gif.FileInfo, error) {
	var (
		path string
		info gif.FileInfo
	)
	err := d.db.QueryRow("SELECT path, version, width, height, colors, interlace FROM image WHERE sha1 = ?", sha1).
		Scan(&path, &info.Version, &info.Width, &info.Height, &info.Colors, &info.Interlace)
	switch {
	case err == sql.ErrNoRows:
		return "", nil, nil
	case err != nil:
		return "", nil, err
	}
	return path, &info, nil
}

func (d *GifDB) Close() error {
	return d.db.Close()
}
