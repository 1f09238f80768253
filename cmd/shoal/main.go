/*
Copyright © 2024 the shoal authors.
This file is part of shoal.

shoal is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

shoal is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with shoal.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command shoal is a command-line interface for the shoal shallow-water
// optical forward model.
package main

import "github.com/spatialmodel/shoal/shoalutil"

func main() {
	shoalutil.Execute()
}
