// stubserver serves programmable HTTP stubs for integration and UI tests.
package main

func main() {
	Execute()
}
