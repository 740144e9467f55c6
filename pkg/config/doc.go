/*
Package config loads and validates the copyctx configuration file.

	            +-------------+
	            |   Config    |
	            | (Sources)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Reads the config from YAML, JSON or HCL, picked by file extension
- Turns each source entry into a closed set of kinds: repo, url, path, sh
- Parses file rules once so every consumer sees the same []rules.Rule

🔄 Flow:
1. Load reads the file and decodes the shared schema
2. Each source becomes a Source with a kind-specific Spec
3. Validate fills defaults and rejects bad names, destinations and patterns

📝 Example (YAML):

	version: 1
	dest: .context
	sources:
	  - type: repo
	    name: kit
	    dest: kit
	    repo: https://github.com/go-kit/kit
	    files: ["docs/**", "!docs/drafts/**"]
	  - type: sh
	    name: tree
	    dest: tree
	    script: ls -R ../.. > tree.txt

📝 Example (HCL):

	version = 1

	source "path" "notes" {
	  dest  = "notes"
	  path  = "~/notes"
	  files = ["*.md"]
	}

A source without files keeps its whole destination. A source with an empty files
list keeps only the destination directory itself.
*/
package config
