// Package fuzztests houses Go fuzz harnesses for the front of the analyzer
// (markup -> lexer -> parser -> rude edit analysis). Its goal is to guard
// against panics and hangs on arbitrary inputs.
//
// Назначение: прогонять случайные байты через разметку, лексер, парсер и
// анализ пары документов.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/markup,
// internal/driver, internal/testkit.

package fuzztests
