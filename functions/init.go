package functions

func init() {
	registerBuiltinFunctions()
}
