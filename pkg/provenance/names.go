package provenance

import "slices"

// Names returns the names of the packages in pkgs with the given Source,
// sorted and without duplicates. Several versions of one crate produce a
// single name.
func Names(pkgs []SourcedPackage, src Source) []string {
	var names []string
	for _, p := range pkgs {
		if p.Source == src {
			names = append(names, p.Package.Name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Names returns the sorted, deduplicated names of the packages in c with the
// given Source.
func (c *Classified) Names(src Source) []string {
	return Names(c.List(), src)
}
