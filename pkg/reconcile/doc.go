/*
Package reconcile computes which paths of a context folder are sanctioned by the
configuration and prunes everything else.

	+-----------+     +--------------+     +-------------+
	|  Targets  | --> | BuildKeepSet | --> |  Reconcile  |
	| (sources) |     |   KeepSet    |     | prune tree  |
	+-----------+     +------+-------+     +-------------+
	                         |
	                  rules.Classify

🔄 Flow:
 1. Every target contributes its destination. Without file rules its whole existing
    subtree is kept; with rules only the entries the classifier keeps.
 2. The reconciler walks the context root, evaluates children before parents, removes
    unkept files and links, and removes unkept directories once they are empty.

⚡ Guarantees:
  - the context root is never removed
  - non-empty unkept directories are left alone
  - a failing entry is recorded in the Report and the pass carries on
  - running twice with the same keep set removes nothing the second time
  - symlinks are never followed, a link is removed as an entry of its own

Classification is read-only and fully finishes before any deletion starts.
*/
package reconcile
