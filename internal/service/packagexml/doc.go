// Package packagexml assembles a PEAR package.xml from the package
// configuration, the walked source and documentation trees, and a
// %(name)s template.
//
// The manifest is rendered fully in memory and written to the output
// only on success, so a failed run never leaves partial XML behind.
package packagexml
