/*
Package status reports how a context folder compares to its configuration.

	+-----------+     +-----------+     +-----------+
	|  Targets  | --> |  Inspect  | --> |  Render   |
	+-----------+     |  Report   |     |  (table)  |
	                  +-----+-----+     +-----------+
	                        |
	              reconcile dry run

🎯 Purpose:
- Shows per source whether its destination exists and how many entries the
  file rules keep or discard
- Lists what a clean would remove without removing anything

Inspect never writes. A missing context root is reported, not created.
*/
package status
