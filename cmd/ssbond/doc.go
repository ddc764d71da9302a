// 16 Oct 2026

/*
Ssbond finds, compares and moves disulfide bonds in protein structures.

Usage:

	ssbond [global flags] verb arguments

Verbs:

	scan-topology FILE         bonds from CONECT and SSBOND records
	scan-distance FILE         SG pairs closer than --cutoff
	compare REF TARGET         reference bonds against model bonds
	autobond FILE              bond close SG pairs, -w to save
	transfer SOURCE TARGET     copy bonds from one structure to another
	export FILE CSV            write a bond file
	import FILE CSV            bond the pairs in a bond file
	snap FIXED SEL MOVING SEL  move one structure onto an atom of another
	check FILE CSV             measure the bonds in a bond file
	save FILE CSV OUT          save with SSBOND records from a bond file
	survey PATH...             scan every structure file under directories, -j workers

A FILE may be a PDB file, gzipped or not, or pdb:1abc to fetch from the
PDB. mmCIF files are refused.

Bond files look like

	Chain1,Resi1,Chain2,Resi2,Note
	A,26,A,84,Detected

Global flags are --config for a yaml file, --log-level, --log-format,
--output text|json for reports, --script FILE to write viewer commands
and --no-color. Settings can also come from SSBOND_ environment
variables, so SSBOND_SCAN_CUTOFF=3.2 is the same as scan.cutoff: 3.2
in the config file.

Bond distances are called tight below 3.0 A, stretched up to and
including 4.5 A and broken above that.
*/
package main
