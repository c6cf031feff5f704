// Package gid 解析当前协程的 id。
//
// runtime 不直接暴露协程 id，此处解析 runtime.Stack 的首行
// （"goroutine 123 [running]:"）。只用于队列归属判断，不作为标识持久化。
package gid

import (
	"runtime"
)

const prefix = "goroutine "

// Get
// 获取当前协程 id。
func Get() (id uint64) {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	if n <= len(prefix) {
		return
	}
	for _, c := range buf[len(prefix):n] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return
}
