/*

Process of elaboration

Equality Graph (egraph) ->
	extract ->
Best cost form per eclass ->
	elaborate ->
Ordered instructions in the control flow graph (ir) ->
	regalloc, encode (external) ->
Machine Code

The egraph, the dominator tree and the loop analysis are produced by
earlier passes and consumed read only. The pass mutates the target
function in place.

*/
package compiler
