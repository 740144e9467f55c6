/*
Package fetch materializes configured sources into the context folder.

	+---------+      +----------+      +---------------+
	| Sources | ---> | Registry | ---> | repo/url/path |
	+---------+      +----------+      |      sh       |
	                                   +---------------+

Each kind has a Fetcher. Materialize runs them with bounded concurrency and keeps
going when one fails, so a single broken source never blocks the rest.

  - repo: shallow go-git clone, skipped when the destination exists, .git removed
  - url:  HTTP GET streamed to the destination file
  - path: local file or directory copied through afero
  - sh:   script run with the destination as working directory
*/
package fetch
