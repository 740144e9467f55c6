/*
Package operation implements the copyctx actions on top of a loaded configuration.

	+-------------+
	|  Operation  |
	|  (Actions)  |
	+------+------+
	       |
	+------+------+------+---------+
	|      |      |      |         |
	sync  clean status combine   Runner

🎯 Purpose:
- sync materializes every source and can clean afterwards
- clean prunes the context folder down to what the config sanctions
- status renders what a clean would do without doing it
- combine concatenates context files for pasting into a prompt

🔄 Flow:
1. The CLI loads the config and builds Options
2. It creates one or more operations
3. A Runner executes them in order and stops at the first failure

🔍 Example:

	opts := operation.Options{Config: cfg, Jobs: 4, Clean: true}
	err := operation.NewRunner(&logger).Run(ctx, operation.NewSyncOperation(opts))

Operations never change the process working directory. Every path is resolved
against the config file location.
*/
package operation
