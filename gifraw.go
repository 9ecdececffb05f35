/*
Package gifraw converts between GIF files and raw RGB pixel data:
packed 3-byte RGB triples, row-major, no header ('.data' in GIMP).
*/
package gifraw

import "log"

type GifRaw struct {
	db     *GifDB
	logger *log.Logger
}

func New(db *GifDB, logger *log.Logger) *GifRaw {
	return &GifRaw{
		db:     db,
		logger: logger,
	}
}

func (g *GifRaw) Close() error {
	if g.db == nil {
		return nil
	}
	return g.db.Close()
}
