/*
Package rules parses keep/delete file rules and classifies directory trees against them.

	+-------------+       +--------------+
	| raw strings | ----> |    []Rule    |
	|  ("!*.log") |       | Keep/Delete  |
	+-------------+       +------+-------+
	                             |
	                      +------+-------+
	                      |   Classify   |
	                      | (path, keep) |
	                      +--------------+

🎯 Purpose:
- Turns the `files` entries of a source into typed rules
- Labels every entry below a destination as kept or discarded

📝 Syntax:
  - "pattern"  keep entries matching pattern
  - "!pattern" delete entries matching pattern

Patterns are doublestar globs matched against the slash-separated path relative to the
classified root. `*` stays within one segment, `**` spans segments.

⚡ Policies:
  - PolicyDeleteWins (default): any keep pattern matches (or there are none) and no delete
    pattern matches.
  - PolicyFirstMatch: the first rule in authored order that matches decides, default keep.

An empty rule list classifies nothing. Callers must treat that as "no decision" rather than
"keep everything".

🔍 Example:

	rs, err := rules.ParseRules([]string{"docs/**", "!docs/drafts/**"})
	if err != nil {
		return err
	}
	for _, c := range rules.Classify(afero.NewOsFs(), "/tmp/ctx/kit", rs) {
		fmt.Println(c.Path, c.Keep)
	}
*/
package rules
