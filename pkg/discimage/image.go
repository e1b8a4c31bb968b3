// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package discimage builds Acorn DFS single sided disc images (.ssd) from
// the files an assembly run saves.
package discimage

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
)

type Options struct {
	// Up to 12 characters
	Title string
	Cycle int
	// *OPT 4 boot option
	Option int
	// When set, a !Boot file which runs this file is added
	BootFile string
}

// Image is a DFS disc held in memory until it is written out.
type Image struct {
	filename string
	catalog  [CATALOG_SIZE]byte
	// Every sector after the catalog
	body []byte
}

// New creates an empty disc. filename names the image in errors.
func New(filename string, options Options) (*Image, error) {
	image := &Image{filename: filename}
	image.catalog[CAT_CYCLE] = byte(options.Cycle)
	image.catalog[CAT_OPTION] = byte((options.Option & 3) << 4)
	image.catalog[CAT_SECTORS] = byte(DISC_SECTORS & 0xFF)
	image.catalog[CAT_OPTION] |= byte(DISC_SECTORS >> 8)

	title := options.Title

	if len(title) > 12 {
		title = title[:12]
	}

	copy(image.catalog[CAT_TITLE_LOW:CAT_TITLE_LOW+8], title)

	if len(title) > 8 {
		copy(image.catalog[CAT_TITLE_HIGH:CAT_TITLE_HIGH+4], title[8:])
	}

	if options.BootFile != "" {
		boot := fmt.Sprintf("*BASIC\r*RUN %s\r", options.BootFile)

		if err := image.AddFile("!Boot", []byte(boot), 0, 0xFFFFFF, len(boot)); err != nil {
			return nil, err
		}

		// *OPT 4,3 to *EXEC the boot file
		image.catalog[CAT_OPTION] = 0x33
	}

	return image, nil
}

// Load starts from an existing disc image, keeping its catalog and files.
func Load(filename string, r io.Reader) (*Image, error) {
	image := &Image{filename: filename}

	if _, err := io.ReadFull(r, image.catalog[:]); err != nil {
		return nil, asmerr.NewFileError(asmerr.ERR_READ_DISC, filename, err)
	}

	end := image.nextSector()
	image.body = make([]byte, (end-2)*SECTOR_SIZE)

	if _, err := io.ReadFull(r, image.body); err != nil {
		return nil, asmerr.NewFileError(asmerr.ERR_READ_DISC, filename, err)
	}

	glog.V(1).Infof("loaded %s: %d files", filename, image.FileCount())
	return image, nil
}

func (image *Image) FileCount() int {
	return int(image.catalog[CAT_ENTRIES]) / 8
}

// First free sector, after the file most recently added. The catalog lists
// files in reverse order of addition.
func (image *Image) nextSector() int {
	if image.catalog[CAT_ENTRIES] == 0 {
		return 2
	}

	info := image.catalog[0x10E]
	start := int(image.catalog[0x10F]) | int(info&0x03)<<8
	length := int(image.catalog[0x10C]) | int(image.catalog[0x10D])<<8 | int(info&0x30)<<12

	return start + (length+SECTOR_SIZE-1)/SECTOR_SIZE
}

func (image *Image) fail(kind asmerr.Kind) error {
	return asmerr.NewFileError(kind, image.filename, nil)
}

// Splits "D.NAME" into its directory and name.
func splitName(name string) (byte, string) {
	if len(name) > 2 && name[1] == '.' {
		return name[0], name[2:]
	}

	return '$', name
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}

	return c
}

func (image *Image) exists(dir byte, padded string) bool {
	for i := 1; i <= image.FileCount(); i++ {
		entry := image.catalog[i*8 : i*8+8]

		if strings.EqualFold(string(entry[:NAME_LENGTH]), padded) &&
			toUpper(entry[7]&0x7F) == toUpper(dir) {
			return true
		}
	}

	return false
}

// AddFile writes length bytes of data as a new file. Bits 16 and 17 of the
// load and exec addresses are kept, so &FFFF1900 marks an I/O processor
// address.
func (image *Image) AddFile(name string, data []byte, load, exec, length int) error {
	dir, name := splitName(name)

	if len(name) > NAME_LENGTH {
		return image.fail(asmerr.ERR_BAD_NAME)
	}

	padded := name + strings.Repeat(" ", NAME_LENGTH-len(name))

	if image.FileCount() == MAX_FILES {
		return image.fail(asmerr.ERR_TOO_MANY_FILES)
	}

	if image.exists(dir, padded) {
		return image.fail(asmerr.ERR_FILE_EXISTS)
	}

	sector := image.nextSector()
	sectors := (length + SECTOR_SIZE - 1) / SECTOR_SIZE

	if sector+sectors > DISC_SECTORS {
		return image.fail(asmerr.ERR_DISC_FULL)
	}

	// Make room for the new entry at the top of both catalog sectors
	entries := image.FileCount() * 8
	copy(image.catalog[16:16+entries], image.catalog[8:8+entries])
	copy(image.catalog[0x110:0x110+entries], image.catalog[0x108:0x108+entries])

	image.catalog[CAT_ENTRIES] += 8

	copy(image.catalog[8:15], padded)
	image.catalog[15] = dir

	image.catalog[0x108] = byte(load)
	image.catalog[0x109] = byte(load >> 8)
	image.catalog[0x10A] = byte(exec)
	image.catalog[0x10B] = byte(exec >> 8)
	image.catalog[0x10C] = byte(length)
	image.catalog[0x10D] = byte(length >> 8)
	image.catalog[0x10E] = byte((exec>>16)&3)<<6 |
		byte((length>>16)&3)<<4 |
		byte((load>>16)&3)<<2 |
		byte((sector>>8)&3)
	image.catalog[0x10F] = byte(sector)

	padding := sectors*SECTOR_SIZE - length
	image.body = append(image.body, data[:length]...)
	image.body = append(image.body, make([]byte, padding)...)

	glog.V(1).Infof("%s: added %c.%s at sector %d", image.filename, dir, name, sector)
	return nil
}

// Bytes is the whole image, catalog first.
func (image *Image) Bytes() []byte {
	return append(image.catalog[:], image.body...)
}

func (image *Image) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(image.Bytes())

	if err != nil {
		return int64(n), asmerr.NewFileError(asmerr.ERR_WRITE_DISC, image.filename, err)
	}

	return int64(n), nil
}
