// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package ini reads, queries, and edits INI files while preserving their
textual layout.

This package is specifically designed for read-modify-write scenarios: a
File keeps every line of its source verbatim, and edits touch only the line
that holds the property being changed. Comments, blank lines, ordering and
the formatting of unrelated lines survive a round trip unchanged.

Syntax

An INI file is a sequence of lines. A line is one of:

	; a comment
	[section]
	key = value
	key = "value with spaces"

Leading and trailing spaces, tabs, carriage returns and line feeds are
ignored when a line is classified. A line whose first non-space character is
a semicolon (';') is a comment. A line of at least three characters that
starts with '[' and ends with ']' is a section header. Any other line inside
a section that contains an equals sign ('=') is a property: the text before
the first '=' is the key and the text after it is the value. A single pair of
double quotes around the value is removed. Quotes are never escaped.

Lines before the first section header and lines without an '=' are kept in
the file but are otherwise ignored.

Names

Section names and keys are compared after trimming and lowercasing, so [DB],
[db] and [ Db ] name the same section. Lowercasing is the only folding
applied: "ss" and "ß" are different keys. Original casing is only used when
new text is written.

Repeated names

If several headers share a folded name, they form one logical section. Keys
from all of them are merged, and new keys are inserted after the last
header. If a key is assigned more than once in a section, the last
assignment in file order wins, and it is the line that Set rewrites and
Delete removes.

Quoting

Values are stored unquoted. When a value is written, it is wrapped in double
quotes if it contains a space or an equals sign.
*/
package ini
