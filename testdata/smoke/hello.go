package smoke

import "fmt"

func hello() {
	fmt.Println("hello")
}
