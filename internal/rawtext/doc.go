// Package rawtext locates decoded markup text in the raw file it came from.
//
// The HTML parser hands out text and attribute values after two rewrites of
// the source bytes: character references are decoded ("&nbsp;" becomes
// U+00A0, "&amp;" becomes "&") and line endings are normalized ("\r\n" and a
// lone "\r" become "\n"). Searching the raw content for the decoded string
// therefore misses text that spans lines in a CRLF file or that contains an
// entity. Index walks the raw bytes and undoes both rewrites as it compares.
//
// Design decision: We match against the original bytes rather than
// normalizing a copy of the file because:
// 1. Offsets must point into the file as stored, for line numbers and edits
// 2. A rewrite must keep the file's own line endings around replaced text
// 3. Entities outside the matched text are left exactly as written
package rawtext
