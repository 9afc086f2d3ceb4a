package kotlin

// renderRuntime returns IonRuntime.kt, the support file defining the Result
// type and the no-op effect hooks.
func renderRuntime() string {
	return `// Runtime support for Ion programs. Do not edit.

/**
 * Two-variant result carrying either a success value or an error.
 */
class IonResult<T, E> private constructor(
    val isOk: Boolean,
    private val okValue: T?,
    private val errValue: E?
) {
    val isError: Boolean
        get() = !isOk

    /** The success value. Throws on the error variant. */
    @Suppress("UNCHECKED_CAST")
    val value: T
        get() = if (isOk) okValue as T else throw IllegalStateException("value accessed on an error result")

    /** The error. Throws on the success variant. */
    @Suppress("UNCHECKED_CAST")
    val error: E
        get() = if (isError) errValue as E else throw IllegalStateException("error accessed on an ok result")

    override fun toString(): String = if (isOk) "Ok($okValue)" else "Error($errValue)"

    companion object {
        fun <T, E> ok(value: T): IonResult<T, E> = IonResult(true, value, null)

        fun <T, E> err(error: E): IonResult<T, E> = IonResult(false, null, error)
    }
}

/**
 * No-op instrumentation hooks for declared effects. Replace with a real
 * implementation to observe effectful calls at runtime.
 */
object EffectTracker {
    fun enter(function: String, vararg effects: String) {
    }

    fun exit(function: String) {
    }
}
`
}

// renderGradle returns the build.gradle.kts manifest.
func renderGradle() string {
	return `plugins {
    kotlin("jvm") version "1.9.22"
}

repositories {
    mavenCentral()
}

dependencies {
    implementation(kotlin("stdlib"))
}
`
}
