// Package manifest turns directory trees into the <contents> block of a
// PEAR package.xml.
//
// Build walks a billy filesystem into a tree of typed nodes, filtering files
// by extension through a role map. Lines and Contents.XML write those trees
// as indented XML, and BuildLeadsXML renders the maintainer records.
package manifest
