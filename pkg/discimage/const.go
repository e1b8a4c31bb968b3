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

package discimage

const (
	SECTOR_SIZE  = 0x100
	CATALOG_SIZE = 2 * SECTOR_SIZE

	// Sectors on a single sided 80 track DFS disc
	DISC_SECTORS = 800
	MAX_FILES    = 31
	NAME_LENGTH  = 7
)

// Offsets into the two catalog sectors.
const (
	CAT_TITLE_LOW  = 0x000
	CAT_TITLE_HIGH = 0x100
	CAT_CYCLE      = 0x104
	CAT_ENTRIES    = 0x105
	CAT_OPTION     = 0x106
	CAT_SECTORS    = 0x107
)
