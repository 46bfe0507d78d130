package bytecode

func copyWords(src []int64) []int64 {
	if src == nil {
		return nil
	}
	dst := make([]int64, len(src))
	copy(dst, src)
	return dst
}

func copyLocations(src []SourceLocation) []SourceLocation {
	if src == nil {
		return nil
	}
	dst := make([]SourceLocation, len(src))
	copy(dst, src)
	return dst
}

func copySymbols(src []SymbolInfo) []SymbolInfo {
	if src == nil {
		return nil
	}
	dst := make([]SymbolInfo, len(src))
	copy(dst, src)
	return dst
}
