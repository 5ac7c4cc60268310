// Package config defines the package metadata consumed by packagexml and
// provides helpers to load, validate and save it in YAML format.
//
// The Config type holds lead maintainers, the template path, package
// metadata, the directories to walk and the extension-to-role map.
package config
