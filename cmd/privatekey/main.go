package main

import (
	"log"

	com "github.com/citizenwallet/governance/internal/common"
)

func main() {
	log.Default().Println("generating...")
	log.Default().Println(" ")

	pk, address, err := com.GenerateHexPrivateKey()
	if err != nil {
		log.Fatal(err)
	}

	log.Default().Printf("private key: %s\n", pk)
	log.Default().Printf("address: %s\n", address)
}
